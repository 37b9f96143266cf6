package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Fepozopo/tonyscale/pkg/cli"
)

func main() {
	if err := cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "tonyscale: %v\n", err)
		os.Exit(1)
	}
}
