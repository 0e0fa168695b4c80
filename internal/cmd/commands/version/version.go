package version

import (
	"github.com/shoemakerdr/ellie/internal/cmd/base"
	"github.com/shoemakerdr/ellie/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: ellie version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
