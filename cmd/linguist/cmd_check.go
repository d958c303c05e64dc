package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/samber/lo"

	"github.com/snapcore/go-linguist"
)

type cmdCheck struct {
	Strict     bool `short:"s" long:"strict" description:"fail if any catalog has warnings"`
	Unfinished bool `short:"u" long:"unfinished" description:"list unfinished messages"`

	Positional struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("check", "Validate catalogs",
		"Check .ts catalogs for plural and placeholder problems and report how complete they are.",
		&cmdCheck{})
}

func (x *cmdCheck) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	// warnings are printed below
	quiet := loader()
	quiet.Log = nil

	total := 0
	for _, path := range x.Positional.Files {
		c, warnings, err := quiet.Load(path)
		if err != nil {
			return errors.Wrap(err, 0)
		}
		total += len(warnings)
		printCheck(path, c, warnings, x.Unfinished)
	}

	if total > 0 && (x.Strict || cfg.Strict) {
		return fmt.Errorf("%d warning(s)", total)
	}
	return nil
}

func printCheck(path string, c *linguist.Catalog, warnings []linguist.Warning, listUnfinished bool) {
	report := linguist.Summarize(c)
	fmt.Printf("%s: %s, %d message(s), %.1f%% finished\n",
		color.New(color.Bold).Sprint(path), report.Language, report.Total.Total, report.Total.Percent())

	for _, w := range warnings {
		fmt.Printf("  %s %s\n", color.YellowString("warning:"), w)
	}

	for _, cr := range report.Incomplete() {
		fmt.Printf("  %-40s %s\n", cr.Name, percent(cr.Stats.Percent()))
	}

	if listUnfinished {
		byContext := lo.GroupBy(report.Unfinished, func(u linguist.Untranslated) string { return u.Context })
		for _, cr := range report.Incomplete() {
			for _, u := range byContext[cr.Name] {
				fmt.Printf("    %s: %q\n", u.Context, u.Source)
			}
		}
	}
}

func percent(p float64) string {
	s := fmt.Sprintf("%5.1f%%", p)
	switch {
	case p >= 100:
		return color.GreenString(s)
	case p >= 50:
		return color.YellowString(s)
	}
	return color.RedString(s)
}
