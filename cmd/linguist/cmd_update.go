package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-errors/errors"

	"github.com/snapcore/go-linguist"
	"github.com/snapcore/go-linguist/internal/lupdate"
)

type cmdUpdate struct {
	FilesFrom   string   `short:"f" long:"files-from" value-name:"FILE" description:"get list of input files from FILE"`
	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`
	Keywords    []string `short:"k" long:"keyword" optional:"true" optional-value:"" value-name:"SPEC" description:"extract calls matching SPEC, e.g. Translate:1c,2,3"`
	Context     string   `long:"context" value-name:"NAME" description:"context of keywords without a context argument (default: package name)"`
	Language    string   `short:"l" long:"language" value-name:"LANG" description:"language of a new catalog"`
	NoLocation  bool     `long:"no-location" description:"do not record source locations"`
	SortOutput  bool     `short:"s" long:"sort-output" description:"sort contexts and messages"`
	Catalog     string   `short:"t" long:"ts" value-name:"FILE" required:"yes" description:"catalog to create or update"`

	Positional struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func init() {
	parser.AddCommand("update", "Extract strings into a catalog",
		"Scan Go files for translatable strings and merge them into a .ts catalog.",
		&cmdUpdate{})
}

func (x *cmdUpdate) files() ([]string, error) {
	if x.FilesFrom == "" {
		return x.Positional.Files, nil
	}
	content, err := os.ReadFile(x.FilesFrom)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %v: %v", x.FilesFrom, err)
	}
	return strings.Split(string(bytes.TrimSpace(content)), "\n"), nil
}

func (x *cmdUpdate) Execute(args []string) error {
	if err := prepare(); err != nil {
		return err
	}
	files, err := x.files()
	if err != nil {
		return err
	}

	extractor := lupdate.Extractor{
		Directories: x.Directories,
		Context:     x.Context,
		NoLocation:  x.NoLocation,
		SortOutput:  x.SortOutput,
	}
	addDefaultKeywords := true
	for _, spec := range x.Keywords {
		if spec == "" {
			// a bare "-k" option disables the default keywords
			addDefaultKeywords = false
			continue
		}
		kw, err := lupdate.ParseKeyword(spec)
		if err != nil {
			return fmt.Errorf("cannot parse keyword %s: %w", spec, err)
		}
		extractor.Keywords = append(extractor.Keywords, kw)
	}
	if addDefaultKeywords {
		extractor.AddDefaultKeywords()
	}

	for _, filename := range files {
		if err := extractor.ParseFile(filename); err != nil {
			return fmt.Errorf("cannot parse file %s: %w", filename, err)
		}
	}

	var updated *linguist.Catalog
	if _, err := os.Stat(x.Catalog); err == nil {
		old, _, err := loadCatalog(x.Catalog)
		if err != nil {
			return err
		}
		updated = extractor.Merge(old)
	} else if os.IsNotExist(err) {
		updated = extractor.Catalog(x.Language)
	} else {
		return errors.Wrap(err, 0)
	}

	report := linguist.Summarize(updated)
	logger.WithField("catalog", x.Catalog).Infof("%d message(s), %d unfinished", report.Total.Total, report.Total.Unfinished)
	fmt.Printf("Found %d source text(s) in %d file(s)\n", len(extractor.Messages()), len(files))
	return writeFile(x.Catalog, func(f *os.File) error {
		return linguist.WriteTS(f, updated)
	})
}
