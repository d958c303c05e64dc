package main

import (
	"os"

	"github.com/snapcore/go-linguist"
)

type cmdFmt struct {
	Write bool `short:"w" long:"write" description:"rewrite the files instead of printing them"`

	Positional struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("fmt", "Normalize catalogs",
		"Rewrite .ts catalogs in the layout of the Qt translation tools.",
		&cmdFmt{})
}

func (x *cmdFmt) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	for _, path := range x.Positional.Files {
		c, _, err := loadCatalog(path)
		if err != nil {
			return err
		}
		if !x.Write {
			if err := linguist.WriteTS(os.Stdout, c); err != nil {
				return err
			}
			continue
		}
		err = writeFile(path, func(f *os.File) error {
			return linguist.WriteTS(f, c)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
