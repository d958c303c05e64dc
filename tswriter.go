package linguist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// tsWriter remembers the first write error so callers can check it once.
type tsWriter struct {
	w   *bufio.Writer
	err error

	// file the loader assumes for a location without a filename
	file string
}

func (w *tsWriter) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *tsWriter) element(indent int, name, text string) {
	w.printf("%s<%s>%s</%s>\n", strings.Repeat("    ", indent), name, escapeText(text), name)
}

func (w *tsWriter) optional(indent int, name, text string) {
	if text != "" {
		w.element(indent, name, text)
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeText escapes s for element content and attribute values. Control
// characters that XML cannot carry are written as <byte> elements, which
// the loader turns back into characters.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>\"'") && !hasControl(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, `<byte value="x%x"/>`, r)
			continue
		}
		b.WriteString(xmlEscaper.Replace(string(r)))
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 && r != '\n' && r != '\t'
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, isControl) >= 0
}

func escapeAttr(s string) string {
	return xmlEscaper.Replace(s)
}

// WriteTS writes c in the layout produced by the Qt translation tools.
// Locations are written with absolute line numbers.
func WriteTS(out io.Writer, c *Catalog) error {
	w := &tsWriter{w: bufio.NewWriter(out)}
	w.printf("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n<TS")
	if c.Version != "" {
		w.printf(" version=\"%s\"", escapeAttr(c.Version))
	}
	if c.Language != "" {
		w.printf(" language=\"%s\"", escapeAttr(c.Language))
	}
	if c.SourceLanguage != "" {
		w.printf(" sourcelanguage=\"%s\"", escapeAttr(c.SourceLanguage))
	}
	w.printf(">\n")

	for _, ctx := range c.Contexts {
		w.printf("<context>\n")
		w.element(1, "name", ctx.Name)
		for _, msg := range ctx.Messages {
			writeMessage(w, msg)
		}
		w.printf("</context>\n")
	}
	w.printf("</TS>\n")

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func writeMessage(w *tsWriter, msg *Message) {
	if msg.Numerus {
		w.printf("    <message numerus=\"yes\">\n")
	} else {
		w.printf("    <message>\n")
	}
	for _, loc := range msg.Locations {
		w.printf("        <location")
		if loc.File != "" || w.file != "" {
			w.printf(" filename=\"%s\"", escapeAttr(loc.File))
			w.file = loc.File
		}
		if loc.Line != 0 {
			w.printf(" line=\"%d\"", loc.Line)
		}
		w.printf("/>\n")
	}
	w.element(2, "source", msg.Source)
	w.optional(2, "oldsource", msg.OldSource)
	w.optional(2, "comment", msg.Comment)
	w.optional(2, "extracomment", msg.ExtraComment)
	w.optional(2, "translatorcomment", msg.TranslatorComment)

	typ := ""
	if msg.Type != Finished {
		typ = fmt.Sprintf(" type=\"%s\"", translationTypeNames[msg.Type])
	}
	switch {
	case !msg.Numerus:
		w.printf("        <translation%s>%s</translation>\n", typ, escapeText(msg.Translation))
	case len(msg.NumerusForms) == 0:
		w.printf("        <translation%s></translation>\n", typ)
	default:
		w.printf("        <translation%s>\n", typ)
		for _, form := range msg.NumerusForms {
			w.element(3, "numerusform", form)
		}
		w.printf("        </translation>\n")
	}
	w.printf("    </message>\n")
}
