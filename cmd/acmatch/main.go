// Command acmatch runs the built-in AC matching scenarios.
//
// Usage:
//
//	acmatch demo                       # run every scenario, print arena and bindings
//	acmatch demo --strategy exhaustive # same, with the backtracking search
//	acmatch batch --workers 4          # run the scenarios concurrently
//	acmatch demo --config acmatch.yaml --metrics
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
