package linguist

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spkg/bom"
)

var (
	// ErrMalformed is wrapped by every structural error in a TS file.
	ErrMalformed = errors.New("malformed translation file")
	// ErrNotTS is returned when the root element is not <TS>.
	ErrNotTS = errors.New("not a TS translation file")
	// ErrDuplicateContext is returned when two contexts share a name.
	ErrDuplicateContext = errors.New("duplicate context")
)

// ParseError locates a structural error in a TS file.
type ParseError struct {
	Element string
	Line    int
	Column  int
	Err     error
}

func (e *ParseError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: <%s>: %v", e.Line, e.Column, e.Element, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Loader reads TS files. The zero value is ready to use; warnings are then
// returned but not logged.
type Loader struct {
	// Log receives one entry per warning found in loaded catalogs.
	Log *logrus.Entry
	// PluralRules overrides the CLDR plural rule, keyed by the language as
	// written in the file ("ru_RU") or by its base language ("ru").
	PluralRules map[string]PluralRule
}

// ParseTS parses a TS file. Warnings are ignored; use a Loader to get them.
func ParseTS(r io.Reader) (*Catalog, error) {
	var l Loader
	catalog, _, err := l.Parse(r)
	return catalog, err
}

// LoadTS parses the TS file at path.
func LoadTS(path string) (*Catalog, error) {
	var l Loader
	catalog, _, err := l.Load(path)
	return catalog, err
}

// Load parses the TS file at path.
func (l *Loader) Load(path string) (*Catalog, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	m, err := openMapping(f)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer m.Close()

	catalog, warnings, err := l.Parse(bytes.NewReader(m.data))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load %s: %w", path, err)
	}
	return catalog, warnings, nil
}

// Parse reads a TS document, validates it and logs any warning. Only
// structural errors fail the parse.
func (l *Loader) Parse(r io.Reader) (*Catalog, []Warning, error) {
	p := tsParser{dec: xml.NewDecoder(bom.NewReader(r)), lines: map[string]int{}}
	catalog, err := p.parse()
	if err != nil {
		return nil, nil, err
	}
	if rule := l.pluralRule(catalog.Language); rule != nil {
		catalog.SetPluralRule(rule)
	}
	catalog.Reindex()

	warnings := Validate(catalog, catalog.PluralRule())
	if l.Log != nil {
		for _, w := range warnings {
			w.log(l.Log)
		}
	}
	return catalog, warnings, nil
}

func (l *Loader) pluralRule(lang string) PluralRule {
	if rule, ok := l.PluralRules[lang]; ok {
		return rule
	}
	if tag, err := ParseLanguage(lang); err == nil {
		base, _ := tag.Base()
		return l.PluralRules[base.String()]
	}
	return nil
}

type tsParser struct {
	dec *xml.Decoder

	// last location, for resolving relative location entries
	file  string
	lines map[string]int
}

func (p *tsParser) errorAt(element string, err error) error {
	line, column := p.dec.InputPos()
	if !errors.Is(err, ErrMalformed) {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &ParseError{Element: element, Line: line, Column: column, Err: err}
}

// decodeError converts a decoder error into a ParseError.
func (p *tsParser) decodeError(element string, err error) error {
	if err == io.EOF {
		return p.errorAt(element, io.ErrUnexpectedEOF)
	}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Element: element, Line: syntaxErr.Line, Err: fmt.Errorf("%w: %s", ErrMalformed, syntaxErr.Msg)}
	}
	return p.errorAt(element, err)
}

func (p *tsParser) token(element string) (xml.Token, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return nil, p.decodeError(element, err)
	}
	return tok, nil
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (p *tsParser) parse() (*Catalog, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil, p.errorAt("", fmt.Errorf("%w: no root element", ErrNotTS))
		}
		if err != nil {
			return nil, p.decodeError("", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "TS" {
				return nil, p.errorAt(t.Name.Local, ErrNotTS)
			}
			catalog, err := p.parseTS(t)
			if err != nil {
				return nil, err
			}
			return catalog, p.expectEnd()
		}
	}
}

// expectEnd checks nothing but comments and whitespace follow the root.
func (p *tsParser) expectEnd() error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return p.decodeError("", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return p.errorAt(t.Name.Local, errors.New("content after root element"))
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return p.errorAt("", errors.New("text after root element"))
			}
		}
	}
}

func (p *tsParser) parseTS(start xml.StartElement) (*Catalog, error) {
	catalog := &Catalog{}
	catalog.Version, _ = attr(start, "version")
	catalog.Language, _ = attr(start, "language")
	catalog.SourceLanguage, _ = attr(start, "sourcelanguage")

	names := map[string]bool{}
	for {
		tok, err := p.token("TS")
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "context":
				ctx, err := p.parseContext()
				if err != nil {
					return nil, err
				}
				if names[ctx.Name] {
					return nil, p.errorAt("context", fmt.Errorf("%w: %w %q", ErrMalformed, ErrDuplicateContext, ctx.Name))
				}
				names[ctx.Name] = true
				catalog.Contexts = append(catalog.Contexts, ctx)
			case "message":
				return nil, p.errorAt("message", errors.New("message outside of a context"))
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, p.decodeError(t.Name.Local, err)
				}
			}
		case xml.EndElement:
			return catalog, nil
		}
	}
}

func (p *tsParser) parseContext() (*Context, error) {
	ctx := &Context{}
	hasName := false
	for {
		tok, err := p.token("context")
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if ctx.Name, err = p.readText("name"); err != nil {
					return nil, err
				}
				hasName = true
			case "message":
				msg, err := p.parseMessage(t)
				if err != nil {
					return nil, err
				}
				ctx.Messages = append(ctx.Messages, msg)
			default:
				if err := p.dec.Skip(); err != nil {
					return nil, p.decodeError(t.Name.Local, err)
				}
			}
		case xml.EndElement:
			if !hasName {
				return nil, p.errorAt("context", errors.New("context without a name"))
			}
			return ctx, nil
		}
	}
}

func (p *tsParser) parseMessage(start xml.StartElement) (*Message, error) {
	msg := &Message{}
	if numerus, ok := attr(start, "numerus"); ok && numerus == "yes" {
		msg.Numerus = true
	}
	hasSource := false
	for {
		tok, err := p.token("message")
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var err error
			switch t.Name.Local {
			case "location":
				err = p.parseLocation(msg, t)
			case "source":
				msg.Source, err = p.readText("source")
				hasSource = true
			case "oldsource":
				msg.OldSource, err = p.readText("oldsource")
			case "comment":
				msg.Comment, err = p.readText("comment")
			case "extracomment":
				msg.ExtraComment, err = p.readText("extracomment")
			case "translatorcomment":
				msg.TranslatorComment, err = p.readText("translatorcomment")
			case "translation":
				err = p.parseTranslation(msg, t)
			default:
				if err = p.dec.Skip(); err != nil {
					err = p.decodeError(t.Name.Local, err)
				}
			}
			if err != nil {
				return nil, err
			}
		case xml.EndElement:
			if !hasSource {
				return nil, p.errorAt("message", errors.New("message without a source"))
			}
			return msg, nil
		}
	}
}

func (p *tsParser) parseLocation(msg *Message, start xml.StartElement) error {
	if file, ok := attr(start, "filename"); ok {
		p.file = file
	}
	loc := Location{File: p.file}
	if line, ok := attr(start, "line"); ok {
		n, err := strconv.Atoi(strings.TrimPrefix(line, "+"))
		if err != nil {
			return p.errorAt("location", fmt.Errorf("invalid line %q", line))
		}
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			n += p.lines[p.file]
		}
		p.lines[p.file] = n
		loc.Line = n
	}
	msg.Locations = append(msg.Locations, loc)
	if err := p.dec.Skip(); err != nil {
		return p.decodeError("location", err)
	}
	return nil
}

func (p *tsParser) parseTranslation(msg *Message, start xml.StartElement) error {
	if typ, ok := attr(start, "type"); ok {
		t, known := parseTranslationType(typ)
		if !known {
			return p.errorAt("translation", fmt.Errorf("unknown translation type %q", typ))
		}
		msg.Type = t
	}
	if !msg.Numerus {
		text, err := p.readText("translation")
		msg.Translation = text
		return err
	}

	msg.NumerusForms = []string{}
	for {
		tok, err := p.token("translation")
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "numerusform" {
				return p.errorAt(t.Name.Local, errors.New("unexpected element in numerus translation"))
			}
			form, err := p.readText("numerusform")
			if err != nil {
				return err
			}
			msg.NumerusForms = append(msg.NumerusForms, form)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return p.errorAt("translation", errors.New("text outside numerusform"))
			}
		case xml.EndElement:
			return nil
		}
	}
}

// readText returns the text content of the current element. Control
// characters are written as <byte value="x1b"/>; of several
// <lengthvariant> children the first is used.
func (p *tsParser) readText(element string) (string, error) {
	var text, variant strings.Builder
	variants, inVariant := 0, false
	out := &text
	for {
		tok, err := p.token(element)
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if variants == 0 || inVariant {
				out.Write(t)
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "byte":
				value, _ := attr(t, "value")
				r, err := parseByteValue(value)
				if err != nil {
					return "", p.errorAt("byte", err)
				}
				out.WriteRune(r)
				if err := p.dec.Skip(); err != nil {
					return "", p.decodeError("byte", err)
				}
			case "lengthvariant":
				variants++
				if variants > 1 {
					if err := p.dec.Skip(); err != nil {
						return "", p.decodeError("lengthvariant", err)
					}
					continue
				}
				inVariant = true
				out = &variant
			default:
				return "", p.errorAt(t.Name.Local, fmt.Errorf("unexpected element in <%s>", element))
			}
		case xml.EndElement:
			if t.Name.Local == "lengthvariant" {
				inVariant = false
				continue
			}
			if variants > 0 {
				return variant.String(), nil
			}
			return text.String(), nil
		}
	}
}

func parseByteValue(value string) (rune, error) {
	var n int64
	var err error
	if strings.HasPrefix(value, "x") {
		n, err = strconv.ParseInt(value[1:], 16, 32)
	} else {
		n, err = strconv.ParseInt(value, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q", value)
	}
	return rune(n), nil
}
