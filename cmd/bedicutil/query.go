package main

import (
	"fmt"
	"os"

	"github.com/k3a/html2text"
	"github.com/urfave/cli/v2"
)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "Query dictionaries in a directory",
	ArgsUsage: "DIR QUERY",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "strip markup from descriptions before printing",
		},
	},
	Action: queryAction,
}

func queryAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("%w: expected DIR and QUERY arguments", ErrFlagParse)
	}
	dir := c.Args().Get(0)
	query := c.Args().Get(1)
	plain := c.Bool("plain")

	dicts, errs := openAll(dir)
	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err)
	}
	defer closeAll(dicts)

	for _, d := range dicts {
		cur, matches, err := d.FindEntry(query)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		fmt.Println(d.Name())
		switch {
		case matches:
			printEntry(cur, plain)
		case !cur.AtEnd() && cur.Subword():
			fmt.Printf("(no exact match; nearest is %q)\n", cur.Keyword())
			printEntry(cur, plain)
		default:
			fmt.Println("(no match)")
		}
		fmt.Println()
	}

	if len(errs) > 0 {
		return cli.Exit("", ExitCodeUnknownError)
	}
	return nil
}

func printEntry(cur interface {
	Keyword() string
	Description() string
}, plain bool,
) {
	desc := cur.Description()
	if plain {
		desc = html2text.HTML2Text(desc)
	}
	fmt.Printf("%s\n\t%s\n", cur.Keyword(), desc)
}
