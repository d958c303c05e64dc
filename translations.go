package linguist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Translations holds the catalogs of one translation domain in the
// different locales an application supports. Use NewTranslations to
// create an instance.
type Translations struct {
	// Translations is passed by value; the cache and its mutex live
	// behind this pointer so copies share them.
	*translations
}

type translations struct {
	mu       deadlock.Mutex
	cache    map[string]Translator
	root     string
	domain   string
	resolver PathResolver
	loader   Loader
	log      *logrus.Entry
}

// PathResolver resolves the path of the catalog for a locale.
type PathResolver func(root string, locale string, domain string) string

// DefaultResolver resolves compiled catalogs named the way Qt applications
// ship them: <root>/<domain>_<locale>.qm
func DefaultResolver(root string, locale string, domain string) string {
	return filepath.Join(root, fmt.Sprintf("%s_%s.qm", domain, locale))
}

// TSResolver resolves source catalogs: <root>/<domain>_<locale>.ts
func TSResolver(root string, locale string, domain string) string {
	return filepath.Join(root, fmt.Sprintf("%s_%s.ts", domain, locale))
}

// NewTranslations sets up the catalogs of domain found under root. Paths
// ending in ".ts" are parsed as source catalogs, anything else as compiled
// catalogs.
func NewTranslations(root string, domain string, resolver PathResolver) Translations {
	return Translations{&translations{
		root:     root,
		domain:   domain,
		resolver: resolver,
		cache:    map[string]Translator{},
		log:      discardLog(),
	}}
}

func discardLog() *logrus.Entry {
	logger := logrus.New()
	logger.Out = io.Discard
	return logrus.NewEntry(logger)
}

// SetLogger sets where load failures and catalog warnings are reported.
// It must be called before the first load.
func (t Translations) SetLogger(log *logrus.Entry) {
	if log == nil {
		log = discardLog()
	}
	t.log = log.WithField("domain", t.domain)
	t.loader.Log = t.log
}

// SetPluralRules overrides the plural rules of source catalogs, keyed as
// Loader.PluralRules. It must be called before the first load.
func (t Translations) SetPluralRules(rules map[string]PluralRule) {
	t.loader.PluralRules = rules
}

// Preload loads a list of locales, if they are available. Subsequent calls
// to Preload or Locale for these locales do no IO.
func (t Translations) Preload(locales ...string) {
	for _, locale := range locales {
		t.load(locale)
	}
}

func (t Translations) load(locale string) Translator {
	t.mu.Lock()
	defer t.mu.Unlock()

	if catalog, ok := t.cache[locale]; ok {
		return catalog
	}

	t.cache[locale] = nil
	path := t.resolver(t.root, locale, t.domain)
	catalog, err := t.open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.log.WithField("path", path).Debug("no catalog")
		} else {
			t.log.WithError(err).WithField("path", path).Warn("cannot load catalog")
		}
		return nil
	}
	t.cache[locale] = catalog
	return catalog
}

func (t Translations) open(path string) (Translator, error) {
	if strings.HasSuffix(path, ".ts") {
		catalog, _, err := t.loader.Load(path)
		if err != nil {
			return nil, err
		}
		return catalog, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	catalog, err := ParseQM(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", path, err)
	}
	return catalog, nil
}

// Locale returns the translations for a list of languages.
//
// If a translation is not found in the first language, each subsequent
// one is consulted until a match is found. If no match is found, the
// source strings are returned.
func (t Translations) Locale(languages ...string) Locale {
	var chain []Translator
	for _, lang := range normalizeLanguages(languages) {
		if catalog := t.load(lang); catalog != nil {
			chain = append(chain, catalog)
		}
	}
	return NewLocale(chain...)
}

// UserLocale returns the translations for the user's languages.
func (t Translations) UserLocale() Locale {
	return t.Locale(UserLanguages()...)
}

// Active holds the translator currently in use. Switch replaces it
// atomically, so lookups running concurrently see either the old or the
// new translator and never take a lock. The zero value serves source
// strings.
type Active struct {
	current atomic.Pointer[Translator]
}

var _ Translator = (*Active)(nil)

// NewActive returns an Active serving t.
func NewActive(t Translator) *Active {
	a := &Active{}
	a.Switch(t)
	return a
}

// Switch makes t the current translator.
func (a *Active) Switch(t Translator) {
	a.current.Store(&t)
}

// Current returns the current translator, nil if none was set.
func (a *Active) Current() Translator {
	if t := a.current.Load(); t != nil {
		return *t
	}
	return nil
}

func (a *Active) Translate(context, source, comment string) Result {
	if t := a.Current(); t != nil {
		return t.Translate(context, source, comment)
	}
	return fallback(source)
}

func (a *Active) TranslateN(context, source, comment string, n int) Result {
	if t := a.Current(); t != nil {
		return t.TranslateN(context, source, comment, n)
	}
	return fallback(replaceCount(source, n))
}

// Tr returns the translation of source in context, or source itself.
func (a *Active) Tr(context, source string) string {
	return a.Translate(context, source, "").Text
}

func (a *Active) TargetLanguage() string {
	if t := a.Current(); t != nil {
		return t.TargetLanguage()
	}
	return ""
}
