// Command linguist loads, checks, compiles and queries Qt translation
// catalogs.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/snapcore/go-linguist/internal/config"
	"github.com/snapcore/go-linguist/internal/log"
)

var version = "unversioned"

type options struct {
	Debug     bool   `short:"d" long:"debug" description:"log debugging output and print error stacks"`
	ConfigDir string `long:"config-dir" value-name:"DIR" description:"read config.yml from DIR instead of the XDG config directories"`
	EnvFile   string `long:"env-file" value-name:"FILE" description:"load environment variables from FILE"`
}

var (
	opts   options
	parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	// set up by prepare before a command runs
	cfg    *config.Config
	logger *logrus.Entry
)

func prepare() error {
	var envFiles []string
	if opts.EnvFile != "" {
		envFiles = append(envFiles, opts.EnvFile)
	}
	var err error
	cfg, err = config.Load(opts.ConfigDir, envFiles...)
	if err != nil {
		return err
	}
	logger = log.NewLogger(opts.Debug || cfg.Debug, version)
	logger.WithFields(logrus.Fields{
		"localeDir": cfg.LocaleDir,
		"domain":    cfg.Domain,
	}).Debug("configuration loaded")
	return nil
}

func main() {
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Println(flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(1)
		}
		fail(err)
	}
}

func fail(err error) {
	if opts.Debug {
		stack := errors.Wrap(err, 0).ErrorStack()
		if logger != nil {
			logger.Error(stack)
		}
		fmt.Fprintln(os.Stderr, stack)
	} else {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
	}
	os.Exit(1)
}
