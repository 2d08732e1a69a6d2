// Command bedicutil lists and queries bedic dictionaries of any backend
// (static ".dic"/".dic.dz", dynamic ".edic", hybrid ".hdic").
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mukoan/libbedic"
)

const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is returned for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is returned for any other failure.
	ExitCodeUnknownError
)

// ErrBedicutil is the parent error for all command errors.
var ErrBedicutil = errors.New("bedicutil")

// ErrFlagParse is a flag or argument parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrBedicutil)

// dictSuffixes are the filename suffixes bedic.Open recognizes.
var dictSuffixes = []string{".dic", ".dic.dz", ".edic", ".hdic"}

// openAll opens every recognized dictionary file directly inside dir,
// mirroring the teacher's stardict.OpenAll: best-effort, collecting
// per-file errors instead of failing the whole directory on one bad file.
func openAll(dir string) ([]bedic.Dictionary, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{err}
	}

	var dicts []bedic.Dictionary
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		matched := false
		for _, suffix := range dictSuffixes {
			if strings.HasSuffix(name, suffix) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		d, err := bedic.Open(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		dicts = append(dicts, d)
	}
	return dicts, errs
}

func closeAll(dicts []bedic.Dictionary) {
	for _, d := range dicts {
		d.Close()
	}
}

//nolint:gochecknoinits // init needed for the global HelpFlag override.
func init() {
	// Re-home the default --help flag the way the teacher's dictionary CLI
	// does, so that "bedicutil --help path" shows help instead of treating
	// "path" as an unknown command.
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

func newBedicutilApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Search and inspect bedic dictionaries.",
		Description: strings.Join([]string{
			"bedic utility written in Go.",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			listCommand,
			queryCommand,
		},
	}
}

func main() {
	if err := newBedicutilApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bedicutil:", err)
		os.Exit(ExitCodeUnknownError)
	}
}
