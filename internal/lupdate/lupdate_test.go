package lupdate

import (
	"bytes"
	"go/ast"
	"go/parser"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/snapcore/go-linguist"
)

func Test(t *testing.T) {
	TestingT(t)
}

var _ = Suite(lupdateSuite{})

type lupdateSuite struct{}

func (lupdateSuite) TestStringConstant(c *C) {
	for _, test := range []struct {
		code, expected string
	}{
		{`"Hello world"`, "Hello world"},
		{"`Hello world`", "Hello world"},
		{"\"Hello \" + `world`", "Hello world"},
		{`"Line 1\nLine 2"`, "Line 1\nLine 2"},
		{`("Weight(%1)")`, "Weight(%1)"},
		{`("a"+"b")+("c"+"d")`, "abcd"},
	} {
		comment := Commentf("expression: %s", test.code)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)
		result, err := stringConstant(expr)
		if !c.Check(err, IsNil, comment) {
			continue
		}
		c.Check(result, Equals, test.expected, comment)
	}

	for _, code := range []string{
		"1",
		"'x'",
		"`xyz`+2",
		`("a"+"b")+("c"+42)`,
		`"a" - "b"`,
	} {
		expr, err := parser.ParseExpr(code)
		c.Assert(err, IsNil)
		result, err := stringConstant(expr)
		c.Check(err, NotNil, Commentf("expression %s evaluated to %q", code, result))
	}
}

func (lupdateSuite) TestParseKeyword(c *C) {
	for _, test := range []struct {
		spec string
		kw   Keyword
	}{
		{"Tr", Keyword{"Tr", "", 0, -1, -1, -1}},
		{"Tr:1c,2", Keyword{"Tr", "", 1, -1, 0, -1}},
		{"Translate:1c,2,3", Keyword{"Translate", "", 1, 2, 0, -1}},
		{"Translate:2,3,1c", Keyword{"Translate", "", 1, 2, 0, -1}},
		{"TranslateN:1c,2,3,4n", Keyword{"TranslateN", "", 1, 2, 0, 3}},
		{"TranslateN:4n,1c,2,3", Keyword{"TranslateN", "", 1, 2, 0, 3}},
		{"tr.Tr:1c,2", Keyword{"Tr", "tr", 1, -1, 0, -1}},
		{"app.N:1,2n", Keyword{"N", "app", 0, -1, -1, 1}},
	} {
		comment := Commentf("keyword spec: %s", test.spec)
		kw, err := ParseKeyword(test.spec)
		if !c.Check(err, IsNil, comment) {
			continue
		}
		c.Check(*kw, Equals, test.kw, comment)
	}

	for _, spec := range []string{
		"foo:1,2,3",
		"bar:1c,2,3,4",
		"foo:bar",
		"foo:50x,2",
		"foo:0",
		"foo:1,,2",
		"a.b.c",
		":1",
	} {
		kw, err := ParseKeyword(spec)
		c.Check(err, NotNil, Commentf("spec %s evaluated to %#v", spec, kw))
	}
}

func (lupdateSuite) TestKeywordMatch(c *C) {
	for _, test := range []struct {
		spec string
		code string
		ok   bool
	}{
		{"Tr", "Tr()", true},
		{"Tr", "catalog.Tr()", true},
		{"Tr", "app.catalog.Tr()", true},
		{"Tr", "NotTr()", false},
		{"tr.Tr", "Tr()", false},
		{"tr.Tr", "tr.Tr()", true},
		{"tr.Tr", "app.tr.Tr()", false},
	} {
		comment := Commentf("spec: %s, expr: %s", test.spec, test.code)
		kw, err := ParseKeyword(test.spec)
		c.Assert(err, IsNil, comment)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)

		c.Check(kw.Match(expr.(*ast.CallExpr)), Equals, test.ok, comment)
	}
}

func (lupdateSuite) TestKeywordExtract(c *C) {
	for _, test := range []struct {
		spec string
		code string
		ok   bool
		msg  Message
	}{
		{"Tr:1c,2", `Tr("DiveTripModel", "Weight(%1)")`, true, Message{Context: "DiveTripModel", Source: "Weight(%1)"}},
		{"Tr:1c,2", `Tr(ctx, "Weight(%1)")`, false, Message{}},
		{"Translate:1c,2,3", `Translate("ConfigureDiveComputerDialog", "P1 (medium)", "Suunto safety level")`, true,
			Message{Context: "ConfigureDiveComputerDialog", Source: "P1 (medium)", Comment: "Suunto safety level"}},
		{"Translate:1c,2,3", `Translate("ctx", "src", comment())`, false, Message{}},
		{"TranslateN:1c,2,3,4n", `TranslateN("DiveListView", "(%n dive(s))", "", n)`, true,
			Message{Context: "DiveListView", Source: "(%n dive(s))", Numerus: true}},

		// out of bounds argument index
		{"Tr:1", `Tr()`, false, Message{}},
		{"Translate:1c,2,3", `Translate("ctx", "src")`, false, Message{}},
		{"TranslateN:1c,2,3,4n", `TranslateN("ctx", "src", "")`, false, Message{}},
	} {
		comment := Commentf("spec: %s, expr: %s", test.spec, test.code)
		kw, err := ParseKeyword(test.spec)
		c.Assert(err, IsNil, comment)
		expr, err := parser.ParseExpr(test.code)
		c.Assert(err, IsNil, comment)

		msg, err := kw.Extract(expr.(*ast.CallExpr))
		c.Check(err == nil, Equals, test.ok, comment)
		c.Check(msg, Equals, test.msg, comment)
	}
}

const fooContent = `package divelist

func foo(tr *linguist.Catalog, n int) {
	println(tr.Tr("DiveTripModel", "Weight(%1)"))
	println(tr.Translate("ConfigureDiveComputerDialog", "P1 (medium)", "Suunto safety level"))
	// Not a translator comment
	println(tr.TranslateN("DiveListView", "(%n dive(s))", "", n))
}
`

const barContent = `package divelist

func bar(tr *linguist.Catalog) {
	//: shown in the trip header
	println(tr.Tr("DiveTripModel", "Weight(%1)"))
	println(Label("Notes"))
}
`

func (lupdateSuite) TestExtractorParseStream(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	kw, err := ParseKeyword("Label")
	c.Assert(err, IsNil)
	e.Keywords = append(e.Keywords, kw)

	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(fooContent))), IsNil)
	c.Assert(e.parseStream("bar.go", bytes.NewReader([]byte(barContent))), IsNil)

	c.Check(e.Messages(), DeepEquals, []Message{
		{Context: "DiveTripModel", Source: "Weight(%1)"},
		{Context: "ConfigureDiveComputerDialog", Source: "P1 (medium)", Comment: "Suunto safety level"},
		{Context: "DiveListView", Source: "(%n dive(s))", Numerus: true},
		// keywords without a context argument use the package name
		{Context: "divelist", Source: "Notes"},
	})

	weight := e.entries[Message{Context: "DiveTripModel", Source: "Weight(%1)"}]
	c.Check(weight.locations, DeepEquals, []linguist.Location{{File: "foo.go", Line: 4}, {File: "bar.go", Line: 5}})
	c.Check(weight.extraComments, DeepEquals, []string{"shown in the trip header"})

	dives := e.entries[Message{Context: "DiveListView", Source: "(%n dive(s))", Numerus: true}]
	c.Check(dives.extraComments, HasLen, 0)
}

func (lupdateSuite) TestExtractorParseStreamSyntaxError(c *C) {
	var e Extractor
	e.AddDefaultKeywords()
	c.Check(e.parseStream("broken.go", bytes.NewReader([]byte("package x\nfunc {"))), NotNil)
}

func (lupdateSuite) TestExtractorCatalog(c *C) {
	e := Extractor{SortOutput: true, Context: "App"}
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(fooContent))), IsNil)

	catalog := e.Catalog("ru_RU")
	c.Check(catalog.Language, Equals, "ru_RU")
	c.Check(catalog.Version, Equals, "2.1")
	c.Assert(catalog.Contexts, HasLen, 3)
	c.Check(catalog.Contexts[0].Name, Equals, "ConfigureDiveComputerDialog")
	c.Check(catalog.Contexts[1].Name, Equals, "DiveListView")
	c.Check(catalog.Contexts[2].Name, Equals, "DiveTripModel")

	msg := catalog.Contexts[1].Messages[0]
	c.Check(msg.Numerus, Equals, true)
	c.Check(msg.Type, Equals, linguist.Unfinished)
	c.Check(msg.Locations, DeepEquals, []linguist.Location{{File: "foo.go", Line: 7}})

	res := catalog.Translate("DiveTripModel", "Weight(%1)", "")
	c.Check(res.Found, Equals, true)
	c.Check(res.Fallback, Equals, true)
}

func (lupdateSuite) TestExtractorNoLocation(c *C) {
	e := Extractor{NoLocation: true}
	e.AddDefaultKeywords()
	c.Assert(e.parseStream("foo.go", bytes.NewReader([]byte(fooContent))), IsNil)
	for _, ctx := range e.Catalog("ru").Contexts {
		for _, msg := range ctx.Messages {
			c.Check(msg.Locations, HasLen, 0)
		}
	}
}
