package main

import (
	"os"

	lingocmder "github.com/papercomputeco/lingo/cmd/lingo"
)

func main() {
	cmd := lingocmder.NewLingoCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
