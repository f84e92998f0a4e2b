package main

import (
	"os"

	"csvofx/cmd/accounts"
	"csvofx/cmd/analyze"
	"csvofx/cmd/convert"
	"csvofx/cmd/ledgercmd"
	"csvofx/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(accounts.Cmd)
	root.Cmd.AddCommand(ledgercmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
