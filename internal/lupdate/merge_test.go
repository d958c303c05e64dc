package lupdate

import (
	"bytes"

	. "gopkg.in/check.v1"

	"github.com/snapcore/go-linguist"
)

var _ = Suite(mergeSuite{})

type mergeSuite struct{}

func oldCatalog() *linguist.Catalog {
	c := &linguist.Catalog{
		Version:  "2.1",
		Language: "ru_RU",
		Contexts: []*linguist.Context{
			{Name: "DiveTripModel", Messages: []*linguist.Message{
				{Source: "Weight(%1)", Translation: "Вес(%1)", TranslatorComment: "checked"},
				{Source: "Cylinder", Translation: "Баллон"},
				{Source: "Suit", Type: linguist.Unfinished},
				{Source: "Buddy", Type: linguist.Unfinished, Translation: "Напарник"},
			}},
			{Name: "DiveListView", Messages: []*linguist.Message{
				{Source: "(%n dive(s))", Numerus: true, Type: linguist.Vanished,
					NumerusForms: []string{"(%n погружение)", "(%n погружения)", "(%n погружений)"}},
			}},
		},
	}
	c.Reindex()
	return c
}

func (mergeSuite) TestMerge(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(fooContent))), IsNil)

	old := oldCatalog()
	merged := e.Merge(old)

	c.Check(merged.Language, Equals, "ru_RU")
	c.Assert(merged.Contexts, HasLen, 3)
	c.Check(merged.Contexts[0].Name, Equals, "DiveTripModel")
	c.Check(merged.Contexts[1].Name, Equals, "DiveListView")
	c.Check(merged.Contexts[2].Name, Equals, "ConfigureDiveComputerDialog")

	trip := merged.Contexts[0].Messages
	c.Assert(trip, HasLen, 3)
	// still used: kept and relocated
	c.Check(trip[0].Source, Equals, "Weight(%1)")
	c.Check(trip[0].Type, Equals, linguist.Finished)
	c.Check(trip[0].Translation, Equals, "Вес(%1)")
	c.Check(trip[0].TranslatorComment, Equals, "checked")
	c.Check(trip[0].Locations, DeepEquals, []linguist.Location{{File: "foo.go", Line: 4}})
	// gone: finished becomes vanished, translated unfinished obsolete
	c.Check(trip[1].Source, Equals, "Cylinder")
	c.Check(trip[1].Type, Equals, linguist.Vanished)
	c.Check(trip[2].Source, Equals, "Buddy")
	c.Check(trip[2].Type, Equals, linguist.Obsolete)

	// vanished strings that reappear are restored
	dives := merged.Contexts[1].Messages[0]
	c.Check(dives.Type, Equals, linguist.Finished)
	c.Check(dives.NumerusForms, HasLen, 3)

	// new strings are unfinished
	p1 := merged.Contexts[2].Messages[0]
	c.Check(p1.Source, Equals, "P1 (medium)")
	c.Check(p1.Comment, Equals, "Suunto safety level")
	c.Check(p1.Type, Equals, linguist.Unfinished)

	c.Check(merged.Translate("DiveTripModel", "Weight(%1)", "").Text, Equals, "Вес(%1)")
	c.Check(merged.TranslateN("DiveListView", "(%n dive(s))", "", 5).Text, Equals, "(5 погружений)")

	// the old catalog is untouched
	c.Check(old.Contexts[0].Messages, HasLen, 4)
	c.Check(old.Contexts[0].Messages[1].Type, Equals, linguist.Finished)
}

func (mergeSuite) TestMergeNumerusChange(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(`package x
func f(n int) { tr.TranslateN("DiveTripModel", "Cylinder", "", n) }
`))), IsNil)

	merged := e.Merge(oldCatalog())
	msg := merged.Contexts[0].Messages[0]
	c.Check(msg.Source, Equals, "Cylinder")
	c.Check(msg.Numerus, Equals, true)
	c.Check(msg.Type, Equals, linguist.Unfinished)
	c.Check(msg.Translation, Equals, "")
	c.Check(msg.NumerusForms, DeepEquals, []string{"Баллон"})
}

func (mergeSuite) TestMergeDuplicates(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(fooContent))), IsNil)

	old := oldCatalog()
	trip := old.Contexts[0]
	trip.Messages = append(trip.Messages,
		&linguist.Message{Source: "Weight(%1)", Translation: "Масса(%1)"},
		&linguist.Message{Source: "Weight(%1)", Type: linguist.Unfinished, Translation: "Вес"},
	)
	old.Reindex()

	merged := e.Merge(old)
	var weights []*linguist.Message
	for _, msg := range merged.Contexts[0].Messages {
		if msg.Source == "Weight(%1)" {
			weights = append(weights, msg)
		}
	}
	// later copies of a string still in use are not retired
	c.Assert(weights, HasLen, 1)
	c.Check(weights[0].Type, Equals, linguist.Finished)
	c.Check(weights[0].Translation, Equals, "Вес(%1)")
}
