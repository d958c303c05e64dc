package main

import (
	"os"
	"path/filepath"

	"github.com/snapcore/go-linguist/internal/i18nexport"
)

type cmdExport struct {
	Output string `short:"o" long:"output" value-name:"FILE" description:"write to FILE (default: active.<lang>.toml next to the catalog, - for stdout)"`

	Positional struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("export", "Export to go-i18n",
		"Write the finished translations of a .ts catalog as a go-i18n TOML message file.",
		&cmdExport{})
}

func (x *cmdExport) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	c, _, err := loadCatalog(x.Positional.File)
	if err != nil {
		return err
	}
	// fail early on catalogs go-i18n cannot use
	if _, err := i18nexport.Bundle(c); err != nil {
		return err
	}

	switch x.Output {
	case "-":
		return i18nexport.WriteTOML(os.Stdout, c)
	case "":
		x.Output = filepath.Join(filepath.Dir(x.Positional.File), i18nexport.FileName(c))
	}
	return writeFile(x.Output, func(f *os.File) error {
		return i18nexport.WriteTOML(f, c)
	})
}
