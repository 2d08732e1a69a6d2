// Command mkbedic compiles a plain-text dictionary source into the static
// on-disk format, mirroring the reference mkbedic tool: sort by collation,
// emit a sparse index, and warn (without failing) on canonical duplicates.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mukoan/libbedic/builder"
	"github.com/mukoan/libbedic/internal/collate"
)

const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess = 0

	// ExitCodeError is returned for any flag, I/O, or format error.
	ExitCodeError = 1
)

//nolint:gochecknoinits // matches the teacher's HelpFlag re-homing pattern.
func init() {
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

func main() {
	app := &cli.App{
		Name:      "mkbedic",
		Usage:     "Compile a text dictionary source into the bedic static format.",
		UsageText: "mkbedic [options] infile outfile",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "treat the entire input as entries; do not parse a header block",
			},
			&cli.StringFlag{
				Name:  "header-file",
				Usage: "read additional header properties from `FILE` (\"-\" for stdin)",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "override the \"id\" property",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print duplicate-entry warnings to stderr",
			},
			&cli.BoolFlag{
				Name:               "help",
				Aliases:            []string{"h"},
				Usage:              "print this help text and exit",
				DisableDefaultText: true,
			},
		},
		HideHelp:        true,
		HideHelpCommand: true,
		Action:          run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mkbedic:", err)
		os.Exit(ExitCodeError)
	}
}

func run(c *cli.Context) error {
	if c.Bool("help") {
		return cli.ShowAppHelp(c)
	}

	if c.NArg() != 2 {
		return fmt.Errorf("both input and output file must be specified")
	}
	sourceFileName := c.Args().Get(0)
	destFileName := c.Args().Get(1)

	in, err := openInput(sourceFileName)
	if err != nil {
		return err
	}
	defer in.Close()

	r := bufio.NewReader(in)
	props := map[string]string{}
	if !c.Bool("no-header") {
		props, err = builder.ReadHeader(r)
		if err != nil {
			return err
		}
	}

	if headerFile := c.String("header-file"); headerFile != "" {
		hf, err := openInput(headerFile)
		if err != nil {
			return err
		}
		extra, err := builder.ReadHeader(bufio.NewReader(hf))
		hf.Close()
		if err != nil {
			return err
		}
		for k, v := range extra {
			props[k] = v
		}
	}

	if id := c.String("id"); id != "" {
		props["id"] = id
	}
	if props["id"] == "" {
		return fmt.Errorf("missing required \"id\" property in the header")
	}

	precedence := props["char-precedence"]
	ignoreChars := props["search-ignore-chars"]
	if ignoreChars == "" {
		if precedence == "" {
			ignoreChars = "-."
		}
		props["search-ignore-chars"] = ignoreChars
	}
	col := collate.New(precedence, ignoreChars)

	entries, err := builder.ReadEntries(r)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(destFileName)
	if err != nil {
		return err
	}
	defer closeOut()

	buildFn := builder.Build
	if strings.HasSuffix(strings.ToLower(destFileName), ".dz") {
		buildFn = builder.BuildDictzip
	}

	warnings, err := buildFn(out, props, entries, col, builder.Options{})
	if err != nil {
		return err
	}
	if c.Bool("verbose") {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "mkbedic warning:", w)
		}
	}

	return nil
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func openOutput(name string) (io.Writer, func() error, error) {
	if name == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
