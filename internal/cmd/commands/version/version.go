package version

import (
	"github.com/forgeworks/pagebridge/internal/cmd/base"
	"github.com/forgeworks/pagebridge/internal/version"
)

// Command prints the gateway version.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: pagebridge version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
