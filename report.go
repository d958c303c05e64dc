package linguist

import (
	"github.com/samber/lo"
)

// Stats counts the messages of a context or catalog by translation state.
type Stats struct {
	Total      int
	Finished   int
	Unfinished int
	Vanished   int
	Obsolete   int
}

func (s *Stats) add(msg *Message) {
	s.Total++
	switch msg.Type {
	case Finished:
		s.Finished++
	case Unfinished:
		s.Unfinished++
	case Vanished:
		s.Vanished++
	case Obsolete:
		s.Obsolete++
	}
}

// Percent is the share of current messages that are finished. Vanished
// and obsolete messages are not counted; a context without current
// messages is complete.
func (s Stats) Percent() float64 {
	current := s.Finished + s.Unfinished
	if current == 0 {
		return 100
	}
	return 100 * float64(s.Finished) / float64(current)
}

// ContextReport is the completeness of one context.
type ContextReport struct {
	Name  string
	Stats Stats
}

// Untranslated is a current message without a usable translation.
type Untranslated struct {
	Context  string
	Source   string
	Comment  string
	Location Location
}

// Report describes how complete a catalog is.
type Report struct {
	Language string
	Total    Stats
	Contexts []ContextReport
	// Unfinished lists unfinished messages in document order.
	Unfinished []Untranslated
}

// Summarize counts the messages of c. Missing translations are reported,
// never treated as errors.
func Summarize(c *Catalog) Report {
	report := Report{Language: c.Language}
	for _, ctx := range c.Contexts {
		cr := ContextReport{Name: ctx.Name}
		for _, msg := range ctx.Messages {
			cr.Stats.add(msg)
			report.Total.add(msg)
		}
		report.Contexts = append(report.Contexts, cr)

		report.Unfinished = append(report.Unfinished, lo.FilterMap(ctx.Messages, func(msg *Message, _ int) (Untranslated, bool) {
			u := Untranslated{Context: ctx.Name, Source: msg.Source, Comment: msg.Comment}
			if len(msg.Locations) > 0 {
				u.Location = msg.Locations[0]
			}
			return u, msg.Type == Unfinished
		})...)
	}
	return report
}

// Incomplete returns the contexts that still have unfinished messages.
func (r Report) Incomplete() []ContextReport {
	return lo.Filter(r.Contexts, func(cr ContextReport, _ int) bool {
		return cr.Stats.Unfinished > 0
	})
}
