package main

import (
	"fmt"
	"os"
)

func main() {
	cli := newCommandLine(os.Stdout, os.Stderr)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			_, _ = fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
