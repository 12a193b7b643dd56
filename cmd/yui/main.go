// Command yui runs the sandboxed Python-subset calc evaluator's CLI.
package main

import (
	"os"

	"github.com/dev-jelly/yui/cmd/yui/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
