package main

import (
	"fmt"
	"os"

	"github.com/snapcore/go-linguist"
)

type cmdRelease struct {
	Output string `short:"o" long:"output" value-name:"FILE" description:"write the compiled catalog to FILE (default: the input with a .qm extension)"`

	Positional struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("release", "Compile catalogs",
		"Compile the finished translations of .ts catalogs into .qm files.",
		&cmdRelease{})
}

func (x *cmdRelease) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	if x.Output != "" && len(x.Positional.Files) > 1 {
		return fmt.Errorf("--output needs a single input file")
	}

	for _, path := range x.Positional.Files {
		c, _, err := loadCatalog(path)
		if err != nil {
			return err
		}
		out := x.Output
		if out == "" {
			out = replaceExt(path, ".qm")
		}
		err = writeFile(out, func(f *os.File) error {
			return linguist.WriteQM(f, c)
		})
		if err != nil {
			return err
		}

		if _, ok := linguist.QMNumerusRules(c.PluralRule()); !ok && hasNumerus(c) {
			logger.WithField("language", c.Language).Warn("no compiled numerus rules for this language, plural forms will not be selected")
		}
		fmt.Print(releaseSummary(c, out))
	}
	return nil
}

// releaseSummary reports what WriteQM compiled and what it left out.
func releaseSummary(c *linguist.Catalog, out string) string {
	released := linguist.Released(c)
	summary := fmt.Sprintf("Generated %d translation(s) in %s\n", released, out)
	if skipped := linguist.Summarize(c).Total.Unfinished; skipped > 0 {
		summary += fmt.Sprintf("Ignored %d unfinished translation(s)\n", skipped)
	}
	return summary
}

func hasNumerus(c *linguist.Catalog) bool {
	for _, ctx := range c.Contexts {
		for _, msg := range ctx.Messages {
			if msg.Numerus {
				return true
			}
		}
	}
	return false
}
