package linguist

// Result is the outcome of a lookup.
type Result struct {
	// Text is the translation, or the source text when Fallback is set.
	Text string
	// Found is set when a message matched the query, finished or not.
	Found bool
	// Fallback is set when Text is the untranslated source text.
	Fallback bool
	// Ambiguous is set when several stored messages could answer the
	// query and the first one in document order was used.
	Ambiguous bool
}

// Translator answers translation queries. Lookups never fail: a missing
// translation yields the source text with Result.Fallback set.
type Translator interface {
	Translate(context, source, comment string) Result
	TranslateN(context, source, comment string, n int) Result
	// TargetLanguage is the language translations are served in.
	TargetLanguage() string
}

var _ Translator = (*Catalog)(nil)

func fallback(source string) Result {
	return Result{Text: source, Fallback: true}
}

// find resolves a query to the message that answers it. A query comment
// that matches nothing is retried without the comment. Catalogs built by
// hand must be indexed with Reindex first.
func (c *Catalog) find(context, source, comment string) (msg *Message, ambiguous bool) {
	disambiguated := comment != ""
	for {
		if msgs := c.index[messageKey{context, source, comment}]; len(msgs) > 0 {
			return msgs[0], !consistent(msgs)
		}
		if comment == "" {
			break
		}
		comment = ""
	}

	// No comment-less message: any disambiguated variant will do, but only
	// for queries that did not ask for a specific one.
	candidates := c.bySource[sourceKey{context, source}]
	if disambiguated || len(candidates) == 0 {
		return nil, false
	}
	for _, other := range candidates[1:] {
		if other.Comment != candidates[0].Comment {
			return candidates[0], true
		}
	}
	return candidates[0], !consistent(candidates)
}

// consistent reports whether duplicate messages agree on their translation.
func consistent(msgs []*Message) bool {
	first := msgs[0]
	for _, msg := range msgs[1:] {
		if msg.Type != first.Type || msg.Translation != first.Translation || !equalForms(msg.NumerusForms, first.NumerusForms) {
			return false
		}
	}
	return true
}

func equalForms(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Translate looks up source in context. The comment disambiguates
// identical source strings and may be empty.
func (c *Catalog) Translate(context, source, comment string) Result {
	msg, ambiguous := c.find(context, source, comment)
	if msg == nil {
		return fallback(source)
	}
	res := fallback(source)
	res.Found = true
	res.Ambiguous = ambiguous
	if !msg.IsFinished() {
		return res
	}

	text := msg.Translation
	if msg.Numerus {
		text = ""
		if len(msg.NumerusForms) > 0 {
			text = msg.NumerusForms[0]
		}
	}
	if text == "" {
		return res
	}
	res.Text = text
	res.Fallback = false
	return res
}

// TranslateN looks up a message whose text depends on the count n. The
// numerus form is chosen by the catalog's plural rule; when the message
// stores fewer forms than the rule selects, the last stored form is used.
// The count replaces any %n marker in the result.
func (c *Catalog) TranslateN(context, source, comment string, n int) Result {
	msg, ambiguous := c.find(context, source, comment)
	res := fallback(replaceCount(source, n))
	if msg == nil {
		return res
	}
	res.Found = true
	res.Ambiguous = ambiguous
	if !msg.IsFinished() {
		return res
	}

	text := msg.Translation
	if msg.Numerus {
		text = ""
		if len(msg.NumerusForms) > 0 {
			idx := c.PluralRule().Index(n)
			if idx >= len(msg.NumerusForms) {
				idx = len(msg.NumerusForms) - 1
			}
			text = msg.NumerusForms[idx]
		}
	}
	if text == "" {
		return res
	}
	res.Text = replaceCount(text, n)
	res.Fallback = false
	return res
}

// Tr returns the translation of source in context, or source itself.
func (c *Catalog) Tr(context, source string) string {
	return c.Translate(context, source, "").Text
}

// TargetLanguage implements Translator.
func (c *Catalog) TargetLanguage() string {
	return c.Language
}

// Locale chains the translators of one or more languages. Translations
// are taken from the first translator that has one; when none has, the
// source text is returned.
type Locale struct {
	translators []Translator
}

// NewLocale builds a Locale consulting translators in order.
func NewLocale(translators ...Translator) Locale {
	return Locale{translators: translators}
}

var _ Translator = Locale{}

func (l Locale) lookup(source string, query func(Translator) Result) Result {
	res := fallback(source)
	for _, t := range l.translators {
		r := query(t)
		if !r.Fallback {
			return r
		}
		if r.Found && !res.Found {
			res = r
		}
	}
	return res
}

func (l Locale) Translate(context, source, comment string) Result {
	return l.lookup(source, func(t Translator) Result {
		return t.Translate(context, source, comment)
	})
}

func (l Locale) TranslateN(context, source, comment string, n int) Result {
	return l.lookup(replaceCount(source, n), func(t Translator) Result {
		return t.TranslateN(context, source, comment, n)
	})
}

// Tr returns the translation of source in context, or source itself.
func (l Locale) Tr(context, source string) string {
	return l.Translate(context, source, "").Text
}

// TargetLanguage is the language of the first translator in the chain.
func (l Locale) TargetLanguage() string {
	if len(l.translators) == 0 {
		return ""
	}
	return l.translators[0].TargetLanguage()
}
