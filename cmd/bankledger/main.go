// Package main provides the entry point for the bankledger CLI application.
package main

import (
	"fmt"
	"os"

	"dkhurana/bankledger/cmd/categorize"
	"dkhurana/bankledger/cmd/process"
	"dkhurana/bankledger/cmd/root"
	"dkhurana/bankledger/cmd/rules"
)

func init() {
	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
