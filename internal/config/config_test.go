package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadUserFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
domain: subsurface
languages: [ru_RU, de]
strict: true
pluralForms:
  ru: "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "subsurface", cfg.Domain)
	assert.Equal(t, "translations", cfg.LocaleDir)
	assert.Equal(t, []string{"ru_RU", "de"}, cfg.Languages)
	assert.True(t, cfg.Strict)

	rules := cfg.PluralRules()
	require.Contains(t, rules, "ru")
	assert.Equal(t, 3, rules["ru"].Forms())
	assert.Equal(t, 2, rules["ru"].Index(5))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "localeDir: from-file\n")
	t.Setenv("LINGUIST_LOCALE_DIR", "from-env")
	t.Setenv("LINGUIST_LANGUAGES", "ru_RU:en")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LocaleDir)
	assert.Equal(t, []string{"ru_RU", "en"}, cfg.Languages)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "LINGUIST_DOMAIN=divelog\n")
	// restored by Setenv when the test ends
	t.Setenv("LINGUIST_DOMAIN", "")
	os.Unsetenv("LINGUIST_DOMAIN")

	cfg, err := Load(dir, envFile)
	require.NoError(t, err)
	assert.Equal(t, "divelog", cfg.Domain)
}

func TestLoadInvalid(t *testing.T) {
	for _, content := range []string{
		"domain: [not, a, string]\n",
		"domain: a/b\n",
		"pluralForms:\n  ru: \"nplurals=3; plural=n %% ;\"\n",
	} {
		dir := t.TempDir()
		writeFile(t, dir, FileName, content)
		_, err := Load(dir)
		assert.Error(t, err, content)
	}
}
