package linguist

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"

	"github.com/snapcore/go-linguist/pluralforms"
)

// PluralRule selects the numerus form used for a count.
type PluralRule interface {
	// Forms is the number of numerus forms the language declares.
	Forms() int
	// Index returns the numerus form for n, in the range [0, Forms()).
	Index(n int) int
}

// cldrRule maps the CLDR plural category of a count to a numerus slot.
// Slots are ordered the way the translation tools order numerusform
// elements: zero, one, two, few, many and other last.
type cldrRule struct {
	tag   language.Tag
	forms []plural.Form
}

func (r *cldrRule) Forms() int {
	return len(r.forms)
}

func (r *cldrRule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	form := plural.Cardinal.MatchPlural(r.tag, n, 0, 0, 0, 0)
	for i, f := range r.forms {
		if f == form {
			return i
		}
	}
	return len(r.forms) - 1
}

func (r *cldrRule) String() string {
	return fmt.Sprintf("%s: %s", r.tag, strings.Join(r.categories(), ", "))
}

func (r *cldrRule) categories() []string {
	names := make([]string, len(r.forms))
	for i, f := range r.forms {
		names[i] = formNames[f]
	}
	return names
}

var formNames = map[plural.Form]string{
	plural.Zero:  "zero",
	plural.One:   "one",
	plural.Two:   "two",
	plural.Few:   "few",
	plural.Many:  "many",
	plural.Other: "other",
}

// slotOrder ranks categories in numerusform order.
func slotOrder(f plural.Form) int {
	if f == plural.Other {
		return int(plural.Many) + 1
	}
	return int(f)
}

// probeLimit bounds the integer counts sampled to discover which categories
// a language uses for whole numbers.
const probeLimit = 1000

var ruleCache sync.Map // language base -> *cldrRule

// ParseLanguage parses a locale name as found in translation files and
// environment variables ("ru_RU", "pt-BR", "sr@latin", "de_DE.UTF-8").
func ParseLanguage(lang string) (language.Tag, error) {
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if lang == "" || lang == "C" || lang == "POSIX" {
		return language.Und, fmt.Errorf("no language in %q", lang)
	}
	return language.Parse(lang)
}

// RuleForLanguage returns the plural rule of a language using the CLDR
// data shipped with golang.org/x/text. Unknown or empty languages use the
// English rule.
func RuleForLanguage(lang string) PluralRule {
	tag, err := ParseLanguage(lang)
	if err != nil || tag == language.Und {
		tag = language.English
	}
	base, _ := tag.Base()
	key := base.String()
	if rule, ok := ruleCache.Load(key); ok {
		return rule.(*cldrRule)
	}

	tag = language.Make(key)
	seen := map[plural.Form]bool{}
	var forms []plural.Form
	for n := 0; n <= probeLimit; n++ {
		f := plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)
		if !seen[f] {
			seen[f] = true
			forms = append(forms, f)
		}
	}
	sort.Slice(forms, func(i, j int) bool {
		return slotOrder(forms[i]) < slotOrder(forms[j])
	})
	rule, _ := ruleCache.LoadOrStore(key, &cldrRule{tag: tag, forms: forms})
	return rule.(*cldrRule)
}

type expressionRule struct {
	nplurals int
	expr     pluralforms.Expression
}

func (r *expressionRule) Forms() int {
	return r.nplurals
}

func (r *expressionRule) Index(n int) int {
	if n < 0 {
		n = -n
	}
	idx := r.expr.Eval(uint32(n))
	if idx < 0 || idx >= r.nplurals {
		return r.nplurals - 1
	}
	return idx
}

func (r *expressionRule) String() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.nplurals, r.expr)
}

// ExpressionRule compiles a gettext style Plural-Forms header, e.g.
// "nplurals=2; plural=n != 1;".
func ExpressionRule(header string) (PluralRule, error) {
	nplurals, expr, err := pluralforms.ParseHeader(header)
	if err != nil {
		return nil, err
	}
	return &expressionRule{nplurals: nplurals, expr: expr}, nil
}

// PluralCategories names the CLDR categories of the numerus forms of
// lang, in numerusform order ("one", "few", "many" for Russian).
func PluralCategories(lang string) []string {
	return RuleForLanguage(lang).(*cldrRule).categories()
}
