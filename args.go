package linguist

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	positionalRe  = regexp.MustCompile(`%(L?)([1-9][0-9]?)`)
	// printf conversions are tried first so "%5.2f" is not read as "%5"
	placeholderRe = regexp.MustCompile(`%%|%[-+#0]*[0-9]*(?:\.[0-9]+)?(?:hh|h|ll|l|q|j|z|t)?[diouxXeEfgGcsp]|%L?[1-9][0-9]?|%L?n`)
)

// Placeholders returns the distinct substitution markers in s, sorted.
// Qt positional markers are normalized, so "%L1" is reported as "%1".
func Placeholders(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllString(s, -1) {
		if m == "%%" {
			continue
		}
		m = strings.Replace(m, "%L", "%", 1)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

// Arg substitutes args into the positional markers of s the way
// QString::arg does: each argument replaces every occurrence of the
// lowest-numbered marker still present. Markers with the L flag are
// formatted the same as plain ones; use ArgIn for locale aware numbers.
func Arg(s string, args ...interface{}) string {
	return argWith(nil, s, args)
}

// ArgIn is Arg with numbers in %L markers formatted for lang.
func ArgIn(lang language.Tag, s string, args ...interface{}) string {
	return argWith(message.NewPrinter(lang), s, args)
}

func argWith(p *message.Printer, s string, args []interface{}) string {
	for _, arg := range args {
		lowest := 0
		for _, m := range positionalRe.FindAllStringSubmatch(s, -1) {
			num, _ := strconv.Atoi(m[2])
			if lowest == 0 || num < lowest {
				lowest = num
			}
		}
		if lowest == 0 {
			break
		}
		s = positionalRe.ReplaceAllStringFunc(s, func(marker string) string {
			m := positionalRe.FindStringSubmatch(marker)
			if num, _ := strconv.Atoi(m[2]); num != lowest {
				return marker
			}
			return formatArg(p, m[1] == "L", arg)
		})
	}
	return s
}

func formatArg(p *message.Printer, localized bool, arg interface{}) string {
	if localized && p != nil {
		switch arg.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return p.Sprintf("%d", arg)
		case float32, float64:
			return p.Sprintf("%v", arg)
		}
	}
	return fmt.Sprint(arg)
}

// replaceCount substitutes the count into the %n and %Ln markers of a
// numerus translation.
func replaceCount(s string, n int) string {
	if !strings.Contains(s, "%") {
		return s
	}
	count := strconv.Itoa(n)
	return strings.NewReplacer("%Ln", count, "%n", count).Replace(s)
}
