package main

import (
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"os"
	"strings"

	"github.com/launchdarkly/regression-test-harness/cmd"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	if err := cmd.NewRootCommand(strings.TrimSpace(versionString)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
