package main

import (
	"fmt"
	"os"

	"todo_e2e/presentation/terminal"
)

func main() {
	if err := terminal.NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
