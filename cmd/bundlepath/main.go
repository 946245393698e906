// cmd/bundlepath/main.go
//
// Entry point for the bundlepath CLI. Every subcommand loads bundlepath.yaml
// (plus env and flag overrides), builds one resolver and prints a result.
//
// Exit status: 0 found, 1 not found, 2 usage or setup error.

package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if errors.Is(err, errNotFound) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
