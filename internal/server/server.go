package server

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeworks/pagebridge/internal/config"
	"github.com/forgeworks/pagebridge/pkg/export"
	"github.com/forgeworks/pagebridge/pkg/recordstore"
	"github.com/forgeworks/pagebridge/pkg/upsert"
)

// Store is the record store surface the API handlers call directly. The
// upsert and export flows consume their own narrower interfaces.
// recordstore.Client satisfies all of them.
type Store interface {
	FetchSchema(ctx context.Context, databaseID string) (*recordstore.Schema, error)
	QueryDatabase(ctx context.Context, databaseID string, q *recordstore.Query) (*recordstore.PageList, error)
	ArchivePage(ctx context.Context, pageID string) (*recordstore.Page, error)
}

var _ Store = (*recordstore.Client)(nil)

// Server contains the server configuration and shared collaborators handed
// to every API handler.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// Store is the record store client (the hosted workspace database).
	Store Store

	// Upserter runs the schema-adaptive create-or-update flow.
	Upserter *upsert.Orchestrator

	// Exporter renders page content to downloadable document formats.
	Exporter *export.Exporter

	// Logger is the logger for the server.
	Logger hclog.Logger
}
