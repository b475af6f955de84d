package main

import (
	"os"

	"github.com/asaidimu/go-griot/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
