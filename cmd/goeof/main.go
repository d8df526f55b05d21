// Command goeof runs an EOF (principal component) analysis on a numeric
// CSV matrix and reports the spectrum, patterns, correlations and
// reconstructions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
