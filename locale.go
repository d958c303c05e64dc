package linguist

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"
)

var osGetenv = os.Getenv

// UserLanguages returns the user's preferred languages from the
// environment, in the order the C library consults it: LANGUAGE (a colon
// separated list), then LC_ALL, LC_MESSAGES and LANG.
func UserLanguages() []string {
	if language := osGetenv("LANGUAGE"); language != "" {
		return strings.Split(language, ":")
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := osGetenv(name); value != "" {
			return []string{value}
		}
	}
	return nil
}

const localeAliasPath = "/usr/share/locale/locale.alias"

var (
	aliasOnce sync.Once
	aliases   map[string]string
)

func localeAliases() map[string]string {
	aliasOnce.Do(func() {
		f, err := os.Open(localeAliasPath)
		if err != nil {
			return
		}
		defer f.Close()
		aliases, _ = parseLocaleAlias(f)
	})
	return aliases
}

// parseLocaleAlias reads a locale.alias file: one "alias locale" pair per
// line, '#' starts a comment.
func parseLocaleAlias(r io.Reader) (map[string]string, error) {
	result := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		result[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// normalizeCodeset turns a ".codeset" suffix into its canonical form:
// lower case, punctuation removed, and "iso" prefixed to purely numeric
// names.
func normalizeCodeset(codeset string) string {
	var b strings.Builder
	digits := true
	for _, r := range strings.TrimPrefix(codeset, ".") {
		switch {
		case unicode.IsLetter(r):
			digits = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	if digits {
		return ".iso" + b.String()
	}
	return "." + b.String()
}

// splitLocale splits language[_territory][.codeset][@modifier]. All parts
// but the language keep their separator.
func splitLocale(locale string) (language, territory, codeset, modifier string) {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale, modifier = locale[:i], locale[i:]
	}
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale, codeset = locale[:i], locale[i:]
	}
	if i := strings.IndexByte(locale, '_'); i >= 0 {
		locale, territory = locale[:i], locale[i:]
	}
	return locale, territory, codeset, modifier
}

// expandLocale lists the catalog names to try for locale, most specific
// first.
func expandLocale(locale string) []string {
	language, territory, codeset, modifier := splitLocale(locale)

	modifiers := []string{""}
	if modifier != "" {
		modifiers = []string{modifier, ""}
	}
	territories := []string{""}
	if territory != "" {
		territories = []string{territory, ""}
	}
	codesets := []string{""}
	if codeset != "" {
		codesets = []string{codeset, ""}
		if normalized := normalizeCodeset(codeset); normalized != codeset {
			codesets = []string{codeset, normalized, ""}
		}
	}

	var result []string
	for _, m := range modifiers {
		for _, t := range territories {
			for _, c := range codesets {
				result = append(result, language+t+c+m)
			}
		}
	}
	return result
}

// normalizeLanguages resolves aliases and expands each language into the
// names to try, dropping duplicates. The C and POSIX locales stand for the
// untranslated strings, so nothing after them is consulted.
func normalizeLanguages(languages []string) []string {
	var result []string
	seen := map[string]bool{}
	for _, lang := range languages {
		if lang == "C" || lang == "POSIX" || strings.HasPrefix(lang, "C.") {
			break
		}
		if alias, ok := localeAliases()[lang]; ok {
			lang = alias
		}
		for _, name := range expandLocale(lang) {
			if !seen[name] {
				seen[name] = true
				result = append(result, name)
			}
		}
	}
	return result
}
