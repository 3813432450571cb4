// Package base carries the state shared by all CLI commands.
package base

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by every CLI command.
type Command struct {
	// UI is the command line UI.
	UI cli.Ui

	// Log is the logger to use.
	Log hclog.Logger
}

// NewCommand returns a base command to embed.
func NewCommand(ui cli.Ui, log hclog.Logger) *Command {
	return &Command{UI: ui, Log: log}
}
