// ABOUTME: Entry point for the partnerhub CLI
// ABOUTME: Terminal client for the restaurant-partner management API

package main

import (
	"fmt"
	"os"

	"partnerhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
