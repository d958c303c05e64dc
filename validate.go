package linguist

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// WarningKind classifies problems that do not prevent a catalog from being
// used.
type WarningKind int

const (
	// PluralCountMismatch: a numerus message does not have as many forms
	// as the language's plural rule declares.
	PluralCountMismatch WarningKind = iota
	// PlaceholderMismatch: source and translation use different
	// substitution markers.
	PlaceholderMismatch
	// InconsistentDuplicate: the same context, source and comment are
	// translated in more than one way.
	InconsistentDuplicate
	// AmbiguousSource: a source string is only stored with several
	// different comments, so a lookup without a comment is ambiguous.
	AmbiguousSource
)

func (k WarningKind) String() string {
	switch k {
	case PluralCountMismatch:
		return "plural-count"
	case PlaceholderMismatch:
		return "placeholder"
	case InconsistentDuplicate:
		return "inconsistent-duplicate"
	case AmbiguousSource:
		return "ambiguous-source"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning describes a problem with one message.
type Warning struct {
	Kind    WarningKind
	Context string
	Source  string
	Comment string
	Detail  string
	// Location is the first location of the message, if any.
	Location Location
}

func (w Warning) String() string {
	var b strings.Builder
	if w.Location.File != "" {
		fmt.Fprintf(&b, "%s:%d: ", w.Location.File, w.Location.Line)
	}
	fmt.Fprintf(&b, "%s: %s %q", w.Kind, w.Context, w.Source)
	if w.Comment != "" {
		fmt.Fprintf(&b, " (%s)", w.Comment)
	}
	fmt.Fprintf(&b, ": %s", w.Detail)
	return b.String()
}

func (w Warning) log(log *logrus.Entry) {
	log.WithFields(logrus.Fields{
		"kind":    w.Kind.String(),
		"context": w.Context,
		"source":  w.Source,
		"comment": w.Comment,
	}).Warn(w.Detail)
}

func newWarning(kind WarningKind, ctx *Context, msg *Message, format string, args ...interface{}) Warning {
	w := Warning{
		Kind:    kind,
		Context: ctx.Name,
		Source:  msg.Source,
		Comment: msg.Comment,
		Detail:  fmt.Sprintf(format, args...),
	}
	if len(msg.Locations) > 0 {
		w.Location = msg.Locations[0]
	}
	return w
}

// Validate checks the business rules of a catalog. Only finished
// translations are checked for placeholders; unfinished ones are expected
// to be incomplete.
func Validate(c *Catalog, rule PluralRule) []Warning {
	var warnings []Warning
	for _, ctx := range c.Contexts {
		seen := map[messageKey]*Message{}
		comments := map[string][]string{}
		for _, msg := range ctx.Messages {
			key := messageKey{ctx.Name, msg.Source, msg.Comment}
			if first, ok := seen[key]; ok {
				if !consistent([]*Message{first, msg}) {
					warnings = append(warnings, newWarning(InconsistentDuplicate, ctx, msg,
						"translated differently from an earlier message with the same source"))
				}
				continue
			}
			seen[key] = msg
			comments[msg.Source] = append(comments[msg.Source], msg.Comment)

			// Empty unfinished forms are slots the tools created, not a
			// translator's choice.
			if msg.Numerus && rule != nil && len(msg.NumerusForms) != rule.Forms() &&
				(msg.Type == Finished || len(lo.Filter(msg.NumerusForms, func(f string, _ int) bool { return f != "" })) > 0) {
				warnings = append(warnings, newWarning(PluralCountMismatch, ctx, msg,
					"%d numerus forms, language %q needs %d", len(msg.NumerusForms), c.Language, rule.Forms()))
			}
			if msg.Type != Finished {
				continue
			}
			if msg.Numerus {
				warnings = append(warnings, checkNumerusPlaceholders(ctx, msg)...)
			} else if msg.Translation != "" {
				if missing, extra := diffPlaceholders(msg.Source, msg.Translation); len(missing)+len(extra) > 0 {
					warnings = append(warnings, newWarning(PlaceholderMismatch, ctx, msg,
						"%s", describePlaceholders(missing, extra)))
				}
			}
		}

		for _, msg := range ctx.Messages {
			variants := lo.Uniq(comments[msg.Source])
			if len(variants) > 1 && !lo.Contains(variants, "") {
				warnings = append(warnings, newWarning(AmbiguousSource, ctx, msg,
					"only stored with comments %q", variants))
				delete(comments, msg.Source)
			}
		}
	}
	return warnings
}

func checkNumerusPlaceholders(ctx *Context, msg *Message) []Warning {
	var warnings []Warning
	for i, form := range msg.NumerusForms {
		if form == "" {
			continue
		}
		missing, extra := diffPlaceholders(msg.Source, form)
		// a form may leave out the count, "one dive" for n == 1
		missing = lo.Without(missing, "%n")
		if len(missing)+len(extra) > 0 {
			warnings = append(warnings, newWarning(PlaceholderMismatch, ctx, msg,
				"numerus form %d: %s", i, describePlaceholders(missing, extra)))
		}
	}
	return warnings
}

func diffPlaceholders(source, translation string) (missing, extra []string) {
	want := Placeholders(source)
	got := Placeholders(translation)
	missing = lo.Filter(want, func(p string, _ int) bool { return !lo.Contains(got, p) })
	extra = lo.Filter(got, func(p string, _ int) bool { return !lo.Contains(want, p) })
	return missing, extra
}

func describePlaceholders(missing, extra []string) string {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, " "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, " "))
	}
	return strings.Join(parts, ", ")
}
