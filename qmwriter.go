package linguist

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
)

type qmHash struct {
	hash   uint32
	offset uint32
}

func writeQMString(buf *bytes.Buffer, tag byte, s string) {
	buf.WriteByte(tag)
	binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}

func writeQMSection(w io.Writer, tag byte, data []byte) error {
	header := [5]byte{tag}
	binary.BigEndian.PutUint32(header[1:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// compiledForms returns the text a compiled catalog stores for msg, or nil
// if the message is not released.
func compiledForms(msg *Message) []string {
	if !msg.IsFinished() {
		return nil
	}
	forms := []string{msg.Translation}
	if msg.Numerus {
		forms = msg.NumerusForms
	}
	for _, f := range forms {
		if f != "" {
			return forms
		}
	}
	return nil
}

// qmRuleFamilies are the numerus rules the Qt tools know, in the bytecode
// QMRule evaluates. A language uses the first family that selects the
// same forms as its plural rule.
var qmRuleFamilies = [][]byte{
	// one, other
	{qEq, 1},
	// 0 and 1, other
	{qLeq, 1},
	// one, two, other
	{qEq, 1, qNewRule, qEq, 2},
	// one, 2-4, other
	{qEq, 1, qNewRule, qBetween, 2, 4},
	// 1 and 21 but not 11, other
	{qMod10 | qEq, 1, qAnd, qMod100 | qNot | qEq, 11},
	// ends in 1, ends in 2, other
	{qMod10 | qEq, 1, qNewRule, qMod10 | qEq, 2},
	// 21, non-zero, zero
	{qMod10 | qEq, 1, qAnd, qMod100 | qNot | qEq, 11, qNewRule, qNot | qEq, 0},
	// 21, 22-29, other
	{qMod10 | qEq, 1, qAnd, qMod100 | qNot | qEq, 11, qNewRule,
		qMod10 | qNot | qEq, 0, qAnd, qMod100 | qNot | qBetween, 10, 19},
	// 21, 22-24, other
	{qMod10 | qEq, 1, qAnd, qMod100 | qNot | qEq, 11, qNewRule,
		qMod10 | qBetween, 2, 4, qAnd, qMod100 | qNot | qBetween, 10, 19},
	// one, 22-24, other
	{qEq, 1, qNewRule, qMod10 | qBetween, 2, 4, qAnd, qMod100 | qNot | qBetween, 10, 19},
	// one, 0 and 2-19, other
	{qEq, 1, qNewRule, qEq, 0, qOr, qMod100 | qBetween, 1, 19},
	// 101, 102, 103-104, other
	{qMod100 | qEq, 1, qNewRule, qMod100 | qEq, 2, qNewRule, qMod100 | qBetween, 3, 4},
	// one, 0 and 2-10, 11-19, other
	{qEq, 1, qNewRule, qEq, 0, qOr, qMod100 | qBetween, 1, 10, qNewRule, qMod100 | qBetween, 11, 19},
	// one and 11, two and 12, 3-19, other
	{qEq, 1, qOr, qEq, 11, qNewRule, qEq, 2, qOr, qEq, 12, qNewRule, qBetween, 3, 19},
	// zero, one, two, 3-10, 11-99, other
	{qEq, 0, qNewRule, qEq, 1, qNewRule, qEq, 2, qNewRule,
		qMod100 | qBetween, 3, 10, qNewRule, qMod100 | qNot | qLt, 11},
}

// QMNumerusRules returns the compiled numerus rules selecting the same
// forms as rule for every count up to probeLimit. Rules with a single form
// need no bytecode. ok is false when no known rule matches, in which case
// Qt applications always show the first form.
func QMNumerusRules(rule PluralRule) (code []byte, ok bool) {
	if rule.Forms() <= 1 {
		return nil, true
	}
	for _, family := range qmRuleFamilies {
		if sameRule(QMRule(family), rule) {
			return family, true
		}
	}
	return nil, false
}

func sameRule(a, b PluralRule) bool {
	if a.Forms() != b.Forms() {
		return false
	}
	for n := 0; n <= probeLimit; n++ {
		if a.Index(n) != b.Index(n) {
			return false
		}
	}
	return true
}

// Released counts the messages WriteQM compiles.
func Released(c *Catalog) int {
	count := 0
	for _, ctx := range c.Contexts {
		for _, msg := range ctx.Messages {
			if compiledForms(msg) != nil {
				count++
			}
		}
	}
	return count
}

// WriteQM compiles the finished translations of c into the binary format
// loaded by ParseQM and by Qt applications. Unfinished, vanished and
// obsolete messages are left out. The numerus rules of the catalog are
// written when QMNumerusRules knows them.
func WriteQM(w io.Writer, c *Catalog) error {
	var messages bytes.Buffer
	var hashes []qmHash
	for _, ctx := range c.Contexts {
		for _, msg := range ctx.Messages {
			forms := compiledForms(msg)
			if forms == nil {
				continue
			}
			hashes = append(hashes, qmHash{
				hash:   elfHash(msg.Source + msg.Comment),
				offset: uint32(messages.Len()),
			})
			for _, form := range forms {
				text, err := utf16be.NewEncoder().Bytes([]byte(form))
				if err != nil {
					return err
				}
				messages.WriteByte(tagTranslation)
				binary.Write(&messages, binary.BigEndian, uint32(len(text)))
				messages.Write(text)
			}
			writeQMString(&messages, tagSourceText, msg.Source)
			writeQMString(&messages, tagContext, ctx.Name)
			if msg.Comment != "" {
				writeQMString(&messages, tagComment, msg.Comment)
			}
			messages.WriteByte(tagEnd)
		}
	}

	// equal hashes keep document order
	sort.SliceStable(hashes, func(i, j int) bool { return hashes[i].hash < hashes[j].hash })
	table := make([]byte, 0, 8*len(hashes))
	for _, h := range hashes {
		table = binary.BigEndian.AppendUint32(table, h.hash)
		table = binary.BigEndian.AppendUint32(table, h.offset)
	}

	if _, err := w.Write(qmMagic); err != nil {
		return err
	}
	if c.Language != "" {
		if err := writeQMSection(w, qmLanguage, []byte(c.Language)); err != nil {
			return err
		}
	}
	if rules, _ := QMNumerusRules(c.PluralRule()); len(rules) > 0 {
		if err := writeQMSection(w, qmNumerusRules, rules); err != nil {
			return err
		}
	}
	if err := writeQMSection(w, qmHashes, table); err != nil {
		return err
	}
	return writeQMSection(w, qmMessages, messages.Bytes())
}
