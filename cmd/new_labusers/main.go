package main

import (
	"fmt" // fmt is used to print the final error
	"os"  // os is used so we can exit with a non-zero status on error

	"github.com/r3dlin3/new-labusers/internal/cli"
)

// main delegates everything to cli.Run and turns an error into exit
// status 1 so scripts can detect failure.
func main() {
	if err := cli.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
