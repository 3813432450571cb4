package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeworks/pagebridge/internal/config"
	"github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/export"
	"github.com/forgeworks/pagebridge/pkg/recordstore"
	"github.com/forgeworks/pagebridge/pkg/upsert"
)

// testStore is an in-memory record store for handler tests. It satisfies
// the handler, upsert, and export store interfaces so one fake backs the
// whole server.
type testStore struct {
	mu sync.Mutex

	schemas map[string]*recordstore.Schema
	users   []recordstore.User
	page    *recordstore.Page
	blocks  []recordstore.Block

	queryFn   func(databaseID string, q *recordstore.Query) (*recordstore.PageList, error)
	archiveFn func(pageID string) (*recordstore.Page, error)

	calls map[string]int

	createdProps map[string]recordstore.PropertyValue
	updatedProps map[string]recordstore.PropertyValue
}

var (
	_ server.Store   = (*testStore)(nil)
	_ upsert.Store   = (*testStore)(nil)
	_ export.Fetcher = (*testStore)(nil)
)

func newTestStore() *testStore {
	return &testStore{
		schemas: map[string]*recordstore.Schema{
			"db-tasks": {
				DatabaseID:    "db-tasks",
				TitleProperty: "Name",
				Properties: map[string]recordstore.PropertyDescriptor{
					"Name": {Type: recordstore.KindTitle},
					"Status": {
						Type: recordstore.KindSelect,
						Select: &recordstore.OptionSet{
							Options: []recordstore.Option{{Name: "Open"}, {Name: "Closed"}},
						},
					},
					"Project": {
						Type:     recordstore.KindRelation,
						Relation: &recordstore.RelationConfig{DatabaseID: "db-roadmap"},
					},
				},
			},
			"db-roadmap": {
				DatabaseID:    "db-roadmap",
				TitleProperty: "Name",
				Properties: map[string]recordstore.PropertyDescriptor{
					"Name": {Type: recordstore.KindTitle},
				},
			},
		},
		calls: map[string]int{},
	}
}

func (s *testStore) count(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *testStore) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *testStore) FetchSchema(_ context.Context, databaseID string) (*recordstore.Schema, error) {
	s.count("FetchSchema")
	schema, ok := s.schemas[databaseID]
	if !ok {
		return nil, &recordstore.APIError{StatusCode: 404, Code: "object_not_found", Message: "database not found"}
	}
	return schema, nil
}

func (s *testStore) QueryDatabase(_ context.Context, databaseID string, q *recordstore.Query) (*recordstore.PageList, error) {
	s.count("QueryDatabase")
	if s.queryFn != nil {
		return s.queryFn(databaseID, q)
	}
	return &recordstore.PageList{}, nil
}

func (s *testStore) Search(_ context.Context, req *recordstore.SearchRequest) (*recordstore.PageList, error) {
	s.count("Search")
	return &recordstore.PageList{}, nil
}

func (s *testStore) CreatePage(_ context.Context, databaseID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error) {
	s.count("CreatePage")
	s.createdProps = properties
	return &recordstore.Page{ID: "page-new", URL: "https://ws.example.com/page-new"}, nil
}

func (s *testStore) UpdatePage(_ context.Context, pageID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error) {
	s.count("UpdatePage")
	s.updatedProps = properties
	return &recordstore.Page{ID: pageID, URL: "https://ws.example.com/" + pageID}, nil
}

func (s *testStore) AppendBlocks(_ context.Context, pageID string, blocks []recordstore.Block) error {
	s.count("AppendBlocks")
	return nil
}

func (s *testStore) ListUsers(_ context.Context) ([]recordstore.User, error) {
	s.count("ListUsers")
	return s.users, nil
}

func (s *testStore) ArchivePage(_ context.Context, pageID string) (*recordstore.Page, error) {
	s.count("ArchivePage")
	if s.archiveFn != nil {
		return s.archiveFn(pageID)
	}
	return &recordstore.Page{ID: pageID, Archived: true}, nil
}

func (s *testStore) GetPage(_ context.Context, pageID string) (*recordstore.Page, error) {
	s.count("GetPage")
	if s.page == nil {
		return nil, fmt.Errorf("no page scripted")
	}
	return s.page, nil
}

func (s *testStore) ListBlocks(_ context.Context, pageID string) ([]recordstore.Block, error) {
	s.count("ListBlocks")
	return s.blocks, nil
}

// newTestServer wires the handler collaborators around one fake store.
func newTestServer(store *testStore) server.Server {
	cfg := &config.Config{
		Server: &config.Server{
			ListenAddr: "127.0.0.1:0",
			AuthToken:  "test-secret",
		},
		RecordStore: &config.RecordStore{
			BaseURL:  "https://api.example.com",
			APIToken: "unused",
		},
		Databases: []*config.Database{
			{Alias: "tasks", ID: "db-tasks"},
			{Alias: "roadmap", ID: "db-roadmap"},
		},
		Export: &config.Export{DefaultFormat: "markdown"},
	}

	logger := hclog.NewNullLogger()
	return server.Server{
		Config:   cfg,
		Store:    store,
		Upserter: upsert.NewOrchestrator(store, logger),
		Exporter: export.NewExporter(store, logger),
		Logger:   logger,
	}
}
