package main

import (
	"os"

	"ethicheck/societal-debt/cmd/analyze"
	"ethicheck/societal-debt/cmd/practices"
	"ethicheck/societal-debt/cmd/root"
)

func main() {
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(practices.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
