package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/shoemakerdr/ellie/internal/cmd/base"
	"github.com/shoemakerdr/ellie/internal/cmd/commands/serve"
	"github.com/shoemakerdr/ellie/internal/cmd/commands/version"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	baseCommand := &base.Command{
		UI:  ui,
		Log: log,
	}

	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &serve.Command{
				Command: baseCommand,
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{
				Command: baseCommand,
			}, nil
		},
	}
}
