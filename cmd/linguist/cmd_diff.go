package main

import (
	"bytes"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/snapcore/go-linguist"
)

type cmdDiff struct {
	Context int `short:"U" long:"unified" default:"3" value-name:"N" description:"lines of context"`

	Positional struct {
		Old string `positional-arg-name:"OLD" required:"yes"`
		New string `positional-arg-name:"NEW" required:"yes"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("diff", "Compare catalogs",
		"Print a unified diff of two .ts catalogs after normalizing their layout.",
		&cmdDiff{})
}

func normalized(path string) (string, error) {
	c, _, err := loadCatalog(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := linguist.WriteTS(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (x *cmdDiff) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	a, err := normalized(x.Positional.Old)
	if err != nil {
		return err
	}
	b, err := normalized(x.Positional.New)
	if err != nil {
		return err
	}
	return difflib.WriteUnifiedDiff(os.Stdout, difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: x.Positional.Old,
		ToFile:   x.Positional.New,
		Context:  x.Context,
	})
}
