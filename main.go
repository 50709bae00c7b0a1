// main is the entry point for the churnscope CLI.
package main

import (
	"github.com/avendano/churnscope/cmd"
	"github.com/avendano/churnscope/internal"
)

func main() {
	if err := cmd.Execute(); err != nil {
		internal.FatalError("Command failed", err)
	}
}
