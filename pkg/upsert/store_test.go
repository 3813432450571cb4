package upsert

import (
	"context"
	"fmt"
	"sync"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// fakeStore is an in-memory Store for tests. Behaviors are scripted per
// method; call counts allow asserting that writes never happen on aborted
// operations.
type fakeStore struct {
	mu sync.Mutex

	schemas map[string]*recordstore.Schema
	users   []recordstore.User

	queryFn  func(databaseID string, q *recordstore.Query) (*recordstore.PageList, error)
	searchFn func(req *recordstore.SearchRequest) (*recordstore.PageList, error)
	appendFn func(pageID string, blocks []recordstore.Block) error

	calls map[string]int

	createdDatabaseID string
	createdProps      map[string]recordstore.PropertyValue
	updatedPageID     string
	updatedProps      map[string]recordstore.PropertyValue
	appendedBlocks    []recordstore.Block
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schemas: make(map[string]*recordstore.Schema),
		calls:   make(map[string]int),
	}
}

func (s *fakeStore) count(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *fakeStore) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *fakeStore) FetchSchema(_ context.Context, databaseID string) (*recordstore.Schema, error) {
	s.count("FetchSchema")
	schema, ok := s.schemas[databaseID]
	if !ok {
		return nil, &recordstore.APIError{StatusCode: 404, Code: "object_not_found", Message: "database not found"}
	}
	return schema, nil
}

func (s *fakeStore) QueryDatabase(_ context.Context, databaseID string, q *recordstore.Query) (*recordstore.PageList, error) {
	s.count("QueryDatabase")
	if s.queryFn != nil {
		return s.queryFn(databaseID, q)
	}
	return &recordstore.PageList{}, nil
}

func (s *fakeStore) Search(_ context.Context, req *recordstore.SearchRequest) (*recordstore.PageList, error) {
	s.count("Search")
	if s.searchFn != nil {
		return s.searchFn(req)
	}
	return &recordstore.PageList{}, nil
}

func (s *fakeStore) CreatePage(_ context.Context, databaseID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error) {
	s.count("CreatePage")
	s.createdDatabaseID = databaseID
	s.createdProps = properties
	return &recordstore.Page{ID: "created-page", URL: "https://ws.example.com/created-page"}, nil
}

func (s *fakeStore) UpdatePage(_ context.Context, pageID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error) {
	s.count("UpdatePage")
	s.updatedPageID = pageID
	s.updatedProps = properties
	return &recordstore.Page{ID: pageID, URL: "https://ws.example.com/" + pageID}, nil
}

func (s *fakeStore) AppendBlocks(_ context.Context, pageID string, blocks []recordstore.Block) error {
	s.count("AppendBlocks")
	if s.appendFn != nil {
		return s.appendFn(pageID, blocks)
	}
	s.appendedBlocks = append(s.appendedBlocks, blocks...)
	return nil
}

func (s *fakeStore) ListUsers(_ context.Context) ([]recordstore.User, error) {
	s.count("ListUsers")
	if s.users == nil {
		return nil, fmt.Errorf("no users scripted")
	}
	return s.users, nil
}

// taskSchema is the schema most tests run against: a tasks-style database
// with one property per supported kind.
func taskSchema() *recordstore.Schema {
	return &recordstore.Schema{
		DatabaseID:    "db-tasks",
		TitleProperty: "Name",
		Properties: map[string]recordstore.PropertyDescriptor{
			"Name":  {Type: recordstore.KindTitle},
			"Notes": {Type: recordstore.KindRichText},
			"Status": {
				Type:   recordstore.KindSelect,
				Select: &recordstore.OptionSet{Options: []recordstore.Option{{Name: "Open"}, {Name: "Closed"}}},
			},
			"Stage": {
				Type:   recordstore.KindStatus,
				Status: &recordstore.OptionSet{Options: []recordstore.Option{{Name: "Not started"}, {Name: "Done"}}},
			},
			"Tags": {
				Type:        recordstore.KindMultiSelect,
				MultiSelect: &recordstore.OptionSet{Options: []recordstore.Option{{Name: "infra"}, {Name: "docs"}}},
			},
			"Due":      {Type: recordstore.KindDate},
			"Estimate": {Type: recordstore.KindNumber},
			"Done":     {Type: recordstore.KindCheckbox},
			"Link":     {Type: recordstore.KindURL},
			"Owners":   {Type: recordstore.KindPeople},
			"Specs":    {Type: recordstore.KindFiles},
			"Project": {
				Type:     recordstore.KindRelation,
				Relation: &recordstore.RelationConfig{DatabaseID: "db-roadmap"},
			},
			"Rollup": {Type: "rollup"},
		},
	}
}

// roadmapSchema is the relation target database.
func roadmapSchema() *recordstore.Schema {
	return &recordstore.Schema{
		DatabaseID:    "db-roadmap",
		TitleProperty: "Name",
		Properties: map[string]recordstore.PropertyDescriptor{
			"Name": {Type: recordstore.KindTitle},
		},
	}
}

func titledPage(id, title string) recordstore.Page {
	return recordstore.Page{
		ID: id,
		Properties: map[string]recordstore.PropertyValue{
			"Name": {
				Type:  recordstore.KindTitle,
				Title: []recordstore.RichText{{PlainText: title}},
			},
		},
	}
}
