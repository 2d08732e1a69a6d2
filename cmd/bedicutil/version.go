package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"
)

// printVersion prints build version information, the way sigs.k8s.io/release-utils
// is typically wired into a release binary's --version flag.
func printVersion(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, version.GetVersionInfo().String())
	return nil
}
