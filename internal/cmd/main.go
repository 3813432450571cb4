package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/forgeworks/pagebridge/internal/cmd/base"
	servercmd "github.com/forgeworks/pagebridge/internal/cmd/commands/server"
	versioncmd "github.com/forgeworks/pagebridge/internal/cmd/commands/version"
	"github.com/forgeworks/pagebridge/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name: cliName,
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	// If no subcommand is provided, default to 'server'
	if len(args) == 1 {
		args = append(args, "server")
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	baseCmd := base.NewCommand(ui, log)

	c := &cli.CLI{
		Name:    cliName,
		Args:    args[1:],
		Version: version.Version,
		Commands: map[string]cli.CommandFactory{
			"server": func() (cli.Command, error) {
				return &servercmd.Command{Command: baseCmd}, nil
			},
			"version": func() (cli.Command, error) {
				return &versioncmd.Command{Command: baseCmd}, nil
			},
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		panic(err)
	}

	return exitCode
}
