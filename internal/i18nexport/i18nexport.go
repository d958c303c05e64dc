// Package i18nexport converts translation catalogs into go-i18n message
// sets, so services built on go-i18n can reuse them.
package i18nexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/snapcore/go-linguist"
)

// MessageID is the go-i18n ID of a catalog message.
func MessageID(context, source, comment string) string {
	id := context + "|" + source
	if comment != "" {
		id += "|" + comment
	}
	return id
}

// countTemplate turns the count marker of numerus forms into the template
// field go-i18n fills from LocalizeConfig.PluralCount.
var countTemplate = strings.NewReplacer("%Ln", "{{.PluralCount}}", "%n", "{{.PluralCount}}")

// Messages returns the finished translations of c. Numerus forms fill the
// plural categories of the catalog language; when the language has no
// "other" category for whole numbers, the last form also serves as
// "other". Only the first of duplicate messages is exported.
func Messages(c *linguist.Catalog) []*i18n.Message {
	categories := linguist.PluralCategories(c.Language)
	seen := map[string]bool{}

	var msgs []*i18n.Message
	for _, ctx := range c.Contexts {
		for _, m := range ctx.Messages {
			id := MessageID(ctx.Name, m.Source, m.Comment)
			if !m.IsFinished() || seen[id] {
				continue
			}
			msg := &i18n.Message{ID: id, Description: description(m)}
			if m.Numerus {
				if !fillPlural(msg, categories, m.NumerusForms) {
					continue
				}
			} else {
				if m.Translation == "" {
					continue
				}
				msg.Other = m.Translation
			}
			seen[id] = true
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func description(m *linguist.Message) string {
	if m.ExtraComment != "" {
		return m.ExtraComment
	}
	return m.Comment
}

func fillPlural(msg *i18n.Message, categories, forms []string) bool {
	filled := false
	for i, form := range forms {
		if form == "" || i >= len(categories) {
			continue
		}
		form = countTemplate.Replace(form)
		switch categories[i] {
		case "zero":
			msg.Zero = form
		case "one":
			msg.One = form
		case "two":
			msg.Two = form
		case "few":
			msg.Few = form
		case "many":
			msg.Many = form
		case "other":
			msg.Other = form
		}
		filled = true
	}
	if msg.Other == "" && len(forms) > 0 {
		msg.Other = countTemplate.Replace(forms[len(forms)-1])
	}
	return filled
}

func catalogTag(c *linguist.Catalog) (language.Tag, error) {
	tag, err := linguist.ParseLanguage(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("catalog language: %w", err)
	}
	return tag, nil
}

// Bundle returns a go-i18n bundle holding the translations of c. The
// source language of the bundle is English.
func Bundle(c *linguist.Catalog) (*i18n.Bundle, error) {
	tag, err := catalogTag(c)
	if err != nil {
		return nil, err
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if err := bundle.AddMessages(tag, Messages(c)...); err != nil {
		return nil, err
	}
	return bundle, nil
}

// FileName is the name go-i18n tooling gives the message file of c,
// e.g. "active.ru.toml".
func FileName(c *linguist.Catalog) string {
	tag, err := catalogTag(c)
	if err != nil {
		return "active.toml"
	}
	base, _ := tag.Base()
	return fmt.Sprintf("active.%s.toml", base)
}

// WriteTOML writes the translations of c as a go-i18n message file.
func WriteTOML(w io.Writer, c *linguist.Catalog) error {
	file := map[string]map[string]string{}
	for _, msg := range Messages(c) {
		entry := map[string]string{}
		for key, value := range map[string]string{
			"description": msg.Description,
			"zero":        msg.Zero,
			"one":         msg.One,
			"two":         msg.Two,
			"few":         msg.Few,
			"many":        msg.Many,
			"other":       msg.Other,
		} {
			if value != "" {
				entry[key] = value
			}
		}
		file[msg.ID] = entry
	}
	return toml.NewEncoder(w).Encode(file)
}
