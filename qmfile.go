package linguist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

var qmMagic = []byte{
	0x3c, 0xb8, 0x64, 0x18, 0xca, 0xef, 0x9c, 0x95,
	0xcd, 0x21, 0x1c, 0xbf, 0x60, 0xa1, 0xbd, 0xdd,
}

// section tags
const (
	qmContexts     = 0x2f
	qmHashes       = 0x42
	qmMessages     = 0x69
	qmNumerusRules = 0x88
	qmDependencies = 0x96
	qmLanguage     = 0xa7
)

// message record tags
const (
	tagEnd          = 1
	tagSourceText16 = 2
	tagTranslation  = 3
	tagContext16    = 4
	tagObsolete1    = 5
	tagSourceText   = 6
	tagContext      = 7
	tagComment      = 8
	tagObsolete2    = 9
)

// ErrNotQM is returned for files without the compiled catalog magic.
var ErrNotQM = errors.New("not a compiled translation catalog")

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// QMCatalog is a compiled catalog as produced by WriteQM or lrelease.
// Lookups read the file data directly.
type QMCatalog struct {
	m *fileMapping

	hashes   []byte
	messages []byte
	rules    []byte
	language string
	rule     PluralRule
}

var _ Translator = (*QMCatalog)(nil)

// elfHash is the hash the compiled format indexes messages by.
func elfHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = (h << 4) + uint32(s[i])
		if g := h & 0xf0000000; g != 0 {
			h ^= g >> 24
			h &^= g
		}
	}
	if h == 0 {
		h = 1
	}
	return h
}

// ParseQM parses a compiled catalog. The file may be closed afterwards;
// call Close on the catalog to release the data.
func ParseQM(f *os.File) (*QMCatalog, error) {
	m, err := openMapping(f)
	if err != nil {
		return nil, err
	}
	catalog, err := parseQM(m)
	if err != nil {
		m.Close()
		return nil, err
	}
	return catalog, nil
}

// ParseQMData parses a compiled catalog held in memory.
func ParseQMData(data []byte) (*QMCatalog, error) {
	return parseQM(&fileMapping{data: data})
}

func parseQM(m *fileMapping) (*QMCatalog, error) {
	data := m.data
	if len(data) < len(qmMagic) || !bytes.Equal(data[:len(qmMagic)], qmMagic) {
		return nil, ErrNotQM
	}
	catalog := &QMCatalog{m: m}
	for pos := len(qmMagic); pos < len(data); {
		if len(data)-pos < 5 {
			return nil, fmt.Errorf("%w: truncated section header at offset %d", ErrMalformed, pos)
		}
		tag := data[pos]
		size := int(binary.BigEndian.Uint32(data[pos+1:]))
		pos += 5
		if size < 0 || size > len(data)-pos {
			return nil, fmt.Errorf("%w: section 0x%x out of bounds", ErrMalformed, tag)
		}
		section := data[pos : pos+size]
		pos += size

		switch tag {
		case qmHashes:
			catalog.hashes = section
		case qmMessages:
			catalog.messages = section
		case qmNumerusRules:
			catalog.rules = section
		case qmLanguage:
			catalog.language = string(section)
		case qmContexts, qmDependencies:
			// not needed for lookups
		}
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}

	if len(catalog.rules) > 0 {
		catalog.rule = QMRule(catalog.rules)
	} else {
		catalog.rule = RuleForLanguage(catalog.language)
	}
	return catalog, nil
}

func (c *QMCatalog) validate() error {
	if len(c.hashes)%8 != 0 {
		return fmt.Errorf("%w: hash table is corrupt", ErrMalformed)
	}
	for i := 0; i < len(c.hashes); i += 8 {
		offset := binary.BigEndian.Uint32(c.hashes[i+4:])
		if int64(offset) >= int64(len(c.messages)) {
			return fmt.Errorf("%w: message offset %d out of bounds", ErrMalformed, offset)
		}
	}
	return nil
}

// Close releases the catalog data.
func (c *QMCatalog) Close() error {
	return c.m.Close()
}

// TargetLanguage implements Translator.
func (c *QMCatalog) TargetLanguage() string {
	return c.language
}

// PluralRule returns the rule embedded in the file, or the CLDR rule of
// the catalog language.
func (c *QMCatalog) PluralRule() PluralRule {
	return c.rule
}

type qmRecord struct {
	translations []string
	source       string
	context      string
	comment      string
	hasContext   bool
	hasComment   bool
}

// readRecord decodes the message record at offset. Malformed records
// yield ok == false.
func (c *QMCatalog) readRecord(offset int) (rec qmRecord, ok bool) {
	data := c.messages
	pos := offset
	readLen := func() (int, bool) {
		if len(data)-pos < 4 {
			return 0, false
		}
		n := binary.BigEndian.Uint32(data[pos:])
		pos += 4
		if n == 0xffffffff {
			return 0, true
		}
		if int64(n) > int64(len(data)-pos) {
			return 0, false
		}
		return int(n), true
	}
	for pos < len(data) {
		tag := data[pos]
		pos++
		switch tag {
		case tagEnd:
			return rec, true
		case tagTranslation:
			n, ok := readLen()
			if !ok || n%2 != 0 {
				return rec, false
			}
			text, err := utf16be.NewDecoder().Bytes(data[pos : pos+n])
			if err != nil {
				return rec, false
			}
			rec.translations = append(rec.translations, string(text))
			pos += n
		case tagSourceText, tagContext, tagComment:
			n, ok := readLen()
			if !ok {
				return rec, false
			}
			s := string(data[pos : pos+n])
			pos += n
			switch tag {
			case tagSourceText:
				rec.source = s
			case tagContext:
				rec.context, rec.hasContext = s, true
			case tagComment:
				rec.comment, rec.hasComment = s, true
			}
		case tagObsolete1:
			pos += 4
		case tagObsolete2, tagSourceText16, tagContext16:
			// no longer written by any tool
			return rec, false
		default:
			return rec, false
		}
	}
	return rec, false
}

func (rec *qmRecord) matches(context, source, comment string) bool {
	if rec.source != source {
		return false
	}
	if rec.hasContext && rec.context != context {
		return false
	}
	return !rec.hasComment || rec.comment == "" || rec.comment == comment
}

// find returns the records for a query, retrying without the comment.
func (c *QMCatalog) find(context, source, comment string) []qmRecord {
	for {
		h := elfHash(source + comment)
		n := len(c.hashes) / 8
		first := sort.Search(n, func(i int) bool {
			return binary.BigEndian.Uint32(c.hashes[8*i:]) >= h
		})
		var found []qmRecord
		for i := first; i < n && binary.BigEndian.Uint32(c.hashes[8*i:]) == h; i++ {
			rec, ok := c.readRecord(int(binary.BigEndian.Uint32(c.hashes[8*i+4:])))
			if ok && rec.matches(context, source, comment) {
				found = append(found, rec)
			}
		}
		if len(found) > 0 || comment == "" {
			return found
		}
		comment = ""
	}
}

func (c *QMCatalog) result(source string, n int, numerus bool, recs []qmRecord) Result {
	res := fallback(source)
	if len(recs) == 0 {
		return res
	}
	res.Found = true
	for _, other := range recs[1:] {
		if !equalForms(other.translations, recs[0].translations) {
			res.Ambiguous = true
		}
	}

	forms := recs[0].translations
	if len(forms) == 0 {
		return res
	}
	idx := 0
	if numerus {
		idx = c.rule.Index(n)
		if idx >= len(forms) {
			idx = len(forms) - 1
		}
	}
	if forms[idx] == "" {
		return res
	}
	res.Text = forms[idx]
	res.Fallback = false
	return res
}

// Tr returns the translation of source in context, or source itself.
func (c *QMCatalog) Tr(context, source string) string {
	return c.Translate(context, source, "").Text
}

// Translate implements Translator.
func (c *QMCatalog) Translate(context, source, comment string) Result {
	return c.result(source, 0, false, c.find(context, source, comment))
}

// TranslateN implements Translator.
func (c *QMCatalog) TranslateN(context, source, comment string, n int) Result {
	res := c.result(source, n, true, c.find(context, source, comment))
	res.Text = replaceCount(res.Text, n)
	return res
}

// numerus rule bytecode
const (
	qEq       = 0x01
	qLt       = 0x02
	qLeq      = 0x03
	qBetween  = 0x04
	qOpMask   = 0x07
	qNot      = 0x08
	qMod10    = 0x10
	qMod100   = 0x20
	qLead1000 = 0x40
	qAnd      = 0xfd
	qOr       = 0xfe
	qNewRule  = 0xff
)

type qmRule struct {
	code []byte
}

// QMRule returns the plural rule encoded in the numerus rules section of a
// compiled catalog. Each rule is a disjunction of conjunctions of
// comparisons; the index of the first rule that holds is the form, and a
// count matching no rule takes the form after the last rule.
func QMRule(code []byte) PluralRule {
	return &qmRule{code: code}
}

func (r *qmRule) Forms() int {
	return bytes.Count(r.code, []byte{qNewRule}) + 2
}

func (r *qmRule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	code := r.code
	i := 0
	form := 0
	next := func() (int, bool) {
		if i >= len(code) {
			return 0, false
		}
		b := code[i]
		i++
		return int(b), true
	}
	for len(code) > 0 {
		or := false
		for {
			and := true
			for {
				opcode, ok := next()
				if !ok {
					return form
				}
				left := n
				switch {
				case opcode&qMod10 != 0:
					left %= 10
				case opcode&qMod100 != 0:
					left %= 100
				case opcode&qLead1000 != 0:
					for left >= 1000 {
						left /= 1000
					}
				}
				right, ok := next()
				if !ok {
					return form
				}
				var truth bool
				switch opcode & qOpMask {
				case qEq:
					truth = left == right
				case qLt:
					truth = left < right
				case qLeq:
					truth = left <= right
				case qBetween:
					top, ok := next()
					if !ok {
						return form
					}
					truth = left >= right && left <= top
				}
				if opcode&qNot != 0 {
					truth = !truth
				}
				and = and && truth
				if i >= len(code) || code[i] != qAnd {
					break
				}
				i++
			}
			or = or || and
			if i >= len(code) || code[i] != qOr {
				break
			}
			i++
		}
		if or {
			return form
		}
		form++
		if i >= len(code) {
			return form
		}
		i++ // qNewRule
	}
	return form
}
