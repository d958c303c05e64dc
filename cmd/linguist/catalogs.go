package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"

	"github.com/snapcore/go-linguist"
)

func loader() *linguist.Loader {
	return &linguist.Loader{Log: logger, PluralRules: cfg.PluralRules()}
}

// loadCatalog parses a .ts file with the configured plural rules.
func loadCatalog(path string) (*linguist.Catalog, []linguist.Warning, error) {
	c, warnings, err := loader().Load(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, 0)
	}
	return c, warnings, nil
}

// openTranslator opens a source or compiled catalog by its extension.
func openTranslator(path string) (linguist.Translator, error) {
	if strings.EqualFold(filepath.Ext(path), ".ts") {
		c, _, err := loadCatalog(path)
		return c, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return linguist.ParseQM(f)
}

// writeFile replaces path with the output of write once it succeeded.
func writeFile(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
