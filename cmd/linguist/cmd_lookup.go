package main

import (
	"fmt"
	"strings"

	"github.com/cloudfoundry/jibber_jabber"
	"github.com/fatih/color"

	"github.com/snapcore/go-linguist"
)

type cmdLookup struct {
	Languages []string `short:"l" long:"lang" value-name:"LANG" description:"language to look up, may be repeated"`
	File      string   `short:"f" long:"file" value-name:"FILE" description:"look up in FILE (.ts or .qm) instead of the locale directory"`
	Source    bool     `long:"ts" description:"load .ts catalogs from the locale directory instead of .qm"`
	Comment   string   `short:"c" long:"comment" value-name:"TEXT" description:"disambiguation comment"`
	Count     *int     `short:"n" long:"count" value-name:"N" description:"count selecting the plural form"`
	Args      []string `short:"a" long:"arg" value-name:"VALUE" description:"value for the next %N marker, may be repeated"`
	Verbose   bool     `short:"v" long:"verbose" description:"show how the lookup was resolved"`

	Positional struct {
		Context string `positional-arg-name:"CONTEXT" required:"yes"`
		Source  string `positional-arg-name:"SOURCE" required:"yes"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("lookup", "Translate a string",
		"Look up SOURCE in CONTEXT and print its translation, or the source text if there is none.",
		&cmdLookup{})
}

// languages picks the languages to consult: the command line, the
// configuration, the environment and finally the system locale.
func (x *cmdLookup) languages() []string {
	if len(x.Languages) > 0 {
		return x.Languages
	}
	if len(cfg.Languages) > 0 {
		return cfg.Languages
	}
	if langs := linguist.UserLanguages(); len(langs) > 0 {
		return langs
	}
	if tag, err := jibber_jabber.DetectIETF(); err == nil {
		return []string{strings.ReplaceAll(tag, "-", "_")}
	}
	return nil
}

func (x *cmdLookup) translator() (linguist.Translator, error) {
	if x.File != "" {
		return openTranslator(x.File)
	}
	resolver := linguist.DefaultResolver
	if x.Source {
		resolver = linguist.TSResolver
	}
	translations := linguist.NewTranslations(cfg.LocaleDir, cfg.Domain, resolver)
	translations.SetLogger(logger)
	translations.SetPluralRules(cfg.PluralRules())
	return translations.Locale(x.languages()...), nil
}

func (x *cmdLookup) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	tr, err := x.translator()
	if err != nil {
		return err
	}
	active := linguist.NewActive(tr)

	var res linguist.Result
	if x.Count != nil {
		res = active.TranslateN(x.Positional.Context, x.Positional.Source, x.Comment, *x.Count)
	} else {
		res = active.Translate(x.Positional.Context, x.Positional.Source, x.Comment)
	}

	text := res.Text
	if len(x.Args) > 0 {
		values := make([]interface{}, len(x.Args))
		for i, a := range x.Args {
			values[i] = a
		}
		text = linguist.Arg(text, values...)
	}
	fmt.Println(text)

	if x.Verbose {
		state := color.GreenString("translated")
		switch {
		case !res.Found:
			state = color.RedString("not found")
		case res.Fallback:
			state = color.YellowString("untranslated")
		}
		fmt.Printf("%s (%s)", state, active.TargetLanguage())
		if res.Ambiguous {
			fmt.Print(color.YellowString(", ambiguous"))
		}
		fmt.Println()
	}
	return nil
}
