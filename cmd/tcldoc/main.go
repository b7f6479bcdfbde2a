package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/siadat/tcldoc/syntax/parser"
)

func main() {
	var app = newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		var parseErr parser.ParseError
		if errors.As(err, &parseErr) {
			for _, line := range parseErr.Detail {
				fmt.Fprintf(os.Stderr, "%s\n", line)
			}
		}
		os.Exit(1)
	}
}
