// Package config loads the settings shared by the linguist commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	"github.com/jesseduffield/yaml"
	"github.com/joho/godotenv"

	"github.com/snapcore/go-linguist"
)

// FileName is the name of the user configuration file.
const FileName = "config.yml"

// Config holds the catalog settings. Zero fields in the user file take
// the default value.
type Config struct {
	// LocaleDir is the directory holding the catalogs.
	LocaleDir string `yaml:"localeDir,omitempty"`
	// Domain is the catalog name prefix, "app" for app_ru_RU.qm.
	Domain string `yaml:"domain,omitempty"`
	// Languages overrides the languages of the environment.
	Languages []string `yaml:"languages,omitempty"`
	Debug     bool     `yaml:"debug,omitempty"`
	// PluralForms maps a language to a Plural-Forms header replacing its
	// CLDR plural rule.
	PluralForms map[string]string `yaml:"pluralForms,omitempty"`
	// Strict makes validation warnings fail the check command.
	Strict bool `yaml:"strict,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LocaleDir: "translations",
		Domain:    "app",
	}
}

// Dir returns the directory the user configuration lives in.
func Dir() string {
	return xdg.New("snapcore", "linguist").ConfigHome()
}

func findConfigFile(configDir string) string {
	if configDir != "" {
		path := filepath.Join(configDir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	return xdg.New("snapcore", "linguist").QueryConfig(FileName)
}

// Load reads the configuration. Settings come, in increasing priority,
// from the defaults, the config.yml found in configDir (or the XDG config
// directories when configDir is empty) and the LINGUIST_* environment
// variables. envFiles are loaded into the environment first; missing
// ones are ignored, as is a missing ".env" when none are given.
func Load(configDir string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: cannot load environment: %w", err)
	}

	cfg := Config{}
	if path := findConfigFile(configDir); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if dir := os.Getenv("LINGUIST_LOCALE_DIR"); dir != "" {
		c.LocaleDir = dir
	}
	if domain := os.Getenv("LINGUIST_DOMAIN"); domain != "" {
		c.Domain = domain
	}
	if languages := os.Getenv("LINGUIST_LANGUAGES"); languages != "" {
		c.Languages = strings.FieldsFunc(languages, func(r rune) bool {
			return r == ':' || r == ',' || r == ' '
		})
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("config: domain cannot be empty")
	}
	if strings.ContainsAny(c.Domain, `/\`) {
		return fmt.Errorf("config: domain %q cannot contain a path separator", c.Domain)
	}
	for lang, header := range c.PluralForms {
		if _, err := linguist.ExpressionRule(header); err != nil {
			return fmt.Errorf("config: plural forms of %s: %w", lang, err)
		}
	}
	return nil
}

// PluralRules compiles the configured plural form overrides.
func (c *Config) PluralRules() map[string]linguist.PluralRule {
	rules := make(map[string]linguist.PluralRule, len(c.PluralForms))
	for lang, header := range c.PluralForms {
		// validated at load time
		if rule, err := linguist.ExpressionRule(header); err == nil {
			rules[lang] = rule
		}
	}
	return rules
}
