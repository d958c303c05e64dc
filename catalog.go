// Package linguist loads, checks, compiles and serves Qt Linguist
// translation catalogs in pure Go: the .ts source format written by the
// translation tools and the binary .qm format shipped with applications.
package linguist

// TranslationType records the state of a translation as maintained by the
// translation tools.
type TranslationType int

const (
	// Finished translations carry no type attribute in the file.
	Finished TranslationType = iota
	// Unfinished translations are not yet approved and are never served.
	Unfinished
	// Vanished translations belong to strings no longer found in the sources.
	Vanished
	// Obsolete is the pre-Qt 5 spelling of Vanished.
	Obsolete
)

var translationTypeNames = map[TranslationType]string{
	Finished:   "",
	Unfinished: "unfinished",
	Vanished:   "vanished",
	Obsolete:   "obsolete",
}

func (t TranslationType) String() string {
	if t == Finished {
		return "finished"
	}
	return translationTypeNames[t]
}

func parseTranslationType(s string) (TranslationType, bool) {
	for t, name := range translationTypeNames {
		if name == s {
			return t, true
		}
	}
	return Finished, false
}

// Location is the place in the application sources a message was extracted
// from. It is provenance only and may be stale.
type Location struct {
	File string
	Line int
}

// Message is one source string and its translation.
type Message struct {
	Source string
	// OldSource is the previous source text of a message whose source
	// changed slightly since it was last translated.
	OldSource string
	// Comment disambiguates identical source strings.
	Comment           string
	ExtraComment      string
	TranslatorComment string
	Locations         []Location

	// Numerus messages carry one translation per plural form in
	// NumerusForms and leave Translation empty.
	Numerus      bool
	Type         TranslationType
	Translation  string
	NumerusForms []string
}

// IsFinished reports whether the translation may be served.
func (m *Message) IsFinished() bool {
	return m.Type == Finished
}

// Context groups the messages of one UI component.
type Context struct {
	Name     string
	Messages []*Message
}

// Catalog holds all contexts of a translation file for one target
// language. A loaded catalog must not be modified: lookups read an index
// built at load time. Use Reindex after building a catalog by hand.
type Catalog struct {
	// Version is the format version of the file, "2.1" for current tools.
	Version        string
	Language       string
	SourceLanguage string
	Contexts       []*Context

	index    map[messageKey][]*Message
	bySource map[sourceKey][]*Message
	rule     PluralRule
}

type messageKey struct {
	context, source, comment string
}

type sourceKey struct {
	context, source string
}

// Context returns the context with the given name.
func (c *Catalog) Context(name string) (*Context, bool) {
	for _, ctx := range c.Contexts {
		if ctx.Name == name {
			return ctx, true
		}
	}
	return nil, false
}

// Messages returns every message stored for (context, source, comment) in
// document order.
func (c *Catalog) Messages(context, source, comment string) []*Message {
	return c.index[messageKey{context, source, comment}]
}

// PluralRule returns the plural rule used to select numerus forms.
func (c *Catalog) PluralRule() PluralRule {
	if c.rule == nil {
		return RuleForLanguage(c.Language)
	}
	return c.rule
}

// SetPluralRule overrides the rule derived from the catalog language.
func (c *Catalog) SetPluralRule(rule PluralRule) {
	c.rule = rule
}

// Reindex rebuilds the lookup index from Contexts.
func (c *Catalog) Reindex() {
	c.index = make(map[messageKey][]*Message)
	c.bySource = make(map[sourceKey][]*Message)
	for _, ctx := range c.Contexts {
		for _, msg := range ctx.Messages {
			key := messageKey{ctx.Name, msg.Source, msg.Comment}
			c.index[key] = append(c.index[key], msg)
			skey := sourceKey{ctx.Name, msg.Source}
			c.bySource[skey] = append(c.bySource[skey], msg)
		}
	}
}
