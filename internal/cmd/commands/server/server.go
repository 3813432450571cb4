package server

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/forgeworks/pagebridge/internal/api"
	"github.com/forgeworks/pagebridge/internal/cmd/base"
	"github.com/forgeworks/pagebridge/internal/config"
	intserver "github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/export"
	"github.com/forgeworks/pagebridge/pkg/recordstore"
	"github.com/forgeworks/pagebridge/pkg/upsert"
)

// Command runs the gateway HTTP server.
type Command struct {
	*base.Command

	flagConfig string
	flagAddr   string
}

func (c *Command) Synopsis() string {
	return "Run the gateway server"
}

func (c *Command) Help() string {
	return `Usage: pagebridge server -config=<path>

  Run the PageBridge gateway server.

Options:

  -config=<path>
      Path to the configuration file.

  -addr=<host:port>
      Override the configured listen address.
`
}

func (c *Command) flags() *flag.FlagSet {
	f := flag.NewFlagSet("server", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "pagebridge.hcl", "config file path")
	f.StringVar(&c.flagAddr, "addr", "", "listen address override")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}
	if c.flagAddr != "" {
		cfg.Server.ListenAddr = c.flagAddr
	}
	if err := cfg.Validate(); err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}

	store, err := recordstore.NewClient(recordstore.Config{
		BaseURL:     cfg.RecordStore.BaseURL,
		APIToken:    cfg.RecordStore.APIToken,
		Version:     cfg.RecordStore.Version,
		Timeout:     cfg.StoreTimeout(),
		MaxAttempts: cfg.RecordStore.MaxAttempts,
	}, c.Log.Named("recordstore"))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating record store client: %v", err))
		return 1
	}

	srv := intserver.Server{
		Config:   cfg,
		Store:    store,
		Upserter: upsert.NewOrchestrator(store, c.Log.Named("upsert")),
		Exporter: export.NewExporter(store, c.Log.Named("export")),
		Logger:   c.Log,
	}

	c.Log.Info("starting gateway server", "addr", cfg.Server.ListenAddr)
	if err := http.ListenAndServe(cfg.Server.ListenAddr, api.New(srv)); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}
