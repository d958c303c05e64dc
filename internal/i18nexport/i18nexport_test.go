package i18nexport

import (
	"bytes"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/snapcore/go-linguist"
)

func sampleCatalog() *linguist.Catalog {
	c := &linguist.Catalog{
		Version:  "2.1",
		Language: "ru_RU",
		Contexts: []*linguist.Context{
			{Name: "DiveTripModel", Messages: []*linguist.Message{
				{Source: "Weight(%1)", Translation: "Вес(%1)"},
				{Source: "Suit", Type: linguist.Unfinished, Translation: "Костюм"},
				{Source: "Notes", Translation: ""},
			}},
			{Name: "ConfigureDiveComputerDialog", Messages: []*linguist.Message{
				{Source: "P1 (medium)", Comment: "Suunto safety level", Translation: "P1 (средний)", ExtraComment: "safety level"},
			}},
			{Name: "DiveListView", Messages: []*linguist.Message{
				{Source: "(%n dive(s))", Numerus: true,
					NumerusForms: []string{"(%n погружение)", "(%n погружения)", "(%n погружений)"}},
			}},
		},
	}
	c.Reindex()
	return c
}

func TestMessages(t *testing.T) {
	msgs := Messages(sampleCatalog())
	require.Len(t, msgs, 3)

	assert.Equal(t, "DiveTripModel|Weight(%1)", msgs[0].ID)
	assert.Equal(t, "Вес(%1)", msgs[0].Other)

	assert.Equal(t, "ConfigureDiveComputerDialog|P1 (medium)|Suunto safety level", msgs[1].ID)
	assert.Equal(t, "safety level", msgs[1].Description)

	dives := msgs[2]
	assert.Equal(t, "({{.PluralCount}} погружение)", dives.One)
	assert.Equal(t, "({{.PluralCount}} погружения)", dives.Few)
	assert.Equal(t, "({{.PluralCount}} погружений)", dives.Many)
	assert.Equal(t, dives.Many, dives.Other)
}

func TestBundle(t *testing.T) {
	bundle, err := Bundle(sampleCatalog())
	require.NoError(t, err)

	localizer := i18n.NewLocalizer(bundle, "ru")
	text, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: MessageID("DiveTripModel", "Weight(%1)", "")})
	require.NoError(t, err)
	assert.Equal(t, "Вес(%1)", text)

	for _, test := range []struct {
		n    int
		want string
	}{
		{1, "(1 погружение)"},
		{3, "(3 погружения)"},
		{5, "(5 погружений)"},
		{21, "(21 погружение)"},
	} {
		text, err := localizer.Localize(&i18n.LocalizeConfig{
			MessageID:   MessageID("DiveListView", "(%n dive(s))", ""),
			PluralCount: test.n,
		})
		require.NoError(t, err)
		assert.Equal(t, test.want, text)
	}
}

func TestBundleWithoutLanguage(t *testing.T) {
	c := sampleCatalog()
	c.Language = ""
	_, err := Bundle(c)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "active.ru.toml", FileName(sampleCatalog()))
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, sampleCatalog()))

	var decoded map[string]map[string]string
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]string{"other": "Вес(%1)"}, decoded["DiveTripModel|Weight(%1)"])

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	_, err := bundle.ParseMessageFileBytes(buf.Bytes(), "active.ru.toml")
	require.NoError(t, err)

	text, err := i18n.NewLocalizer(bundle, "ru").Localize(&i18n.LocalizeConfig{
		MessageID: MessageID("ConfigureDiveComputerDialog", "P1 (medium)", "Suunto safety level"),
	})
	require.NoError(t, err)
	assert.Equal(t, "P1 (средний)", text)
}
