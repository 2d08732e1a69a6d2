package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/mukoan/libbedic"
)

var listCommand = &cli.Command{
	Name:      "list",
	Usage:     "List dictionaries in a directory",
	ArgsUsage: "DIR",
	Action:    listAction,
}

func listAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: expected exactly one directory argument", ErrFlagParse)
	}
	dir := c.Args().Get(0)

	dicts, errs := openAll(dir)
	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err)
	}
	defer closeAll(dicts)

	tbl := table.New("File", "Name", "Backend", "Editable")
	for _, d := range dicts {
		tbl.AddRow(filepath.Base(d.FileName()), d.Name(), backendName(d), d.IsMetaEditable())
	}
	tbl.Print()

	if len(errs) > 0 {
		return cli.Exit("", ExitCodeUnknownError)
	}
	return nil
}

// backendName reports the backend kind by filename suffix, the same rule
// bedic.Open uses to select it in the first place.
func backendName(d bedic.Dictionary) string {
	if !d.IsDynamic() {
		return "static"
	}
	if filepath.Ext(d.FileName()) == ".hdic" {
		return "hybrid"
	}
	return "dynamic"
}
