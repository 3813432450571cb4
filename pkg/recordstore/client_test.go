package recordstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:        url,
		APIToken:       "test-token",
		Version:        "2022-06-28",
		MaxAttempts:    5,
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  4 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{BaseURL: "https://api.example.com", APIToken: "tok"},
			wantErr: false,
		},
		{
			name:    "missing base url",
			config:  Config{APIToken: "tok"},
			wantErr: true,
		},
		{
			name:    "missing token",
			config:  Config{BaseURL: "https://api.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.config, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && c == nil {
				t.Error("NewClient() returned nil client")
			}
		})
	}
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotVersion string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"p1"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.GetPage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "2022-06-28", gotVersion)
}

func TestClientRetriesRateLimitThenSucceeds(t *testing.T) {
	// 4 consecutive 429s followed by success must complete within the
	// 5-attempt budget.
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 4 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"code":"rate_limited","message":"slow down"}`))
			return
		}
		w.Write([]byte(`{"id":"p1","url":"https://ws.example.com/p1"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	page, err := c.GetPage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, "p1", page.ID)
}

func TestClientExhaustsRetryBudget(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":"rate_limited","message":"slow down"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.GetPage(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, 5, calls)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate_limited", apiErr.Code)
}

func TestClientRetriesConflict(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"code":"conflict_error","message":"saving in progress"}`))
			return
		}
		w.Write([]byte(`{"id":"p1"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.GetPage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClientDoesNotRetryOtherErrors(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"validation_error","message":"bad property"}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	_, err := c.GetPage(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-409/429 errors must not be retried")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestConflictBackOffSchedule(t *testing.T) {
	b := &conflictBackOff{
		base:  250 * time.Millisecond,
		max:   2 * time.Second,
		tries: 5,
	}

	// Expected schedule: 250ms, 500ms, 1s, 2s (each plus up to 100ms
	// jitter), then stop after the 5th attempt.
	expected := []time.Duration{
		250 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
	}
	for i, want := range expected {
		got := b.NextBackOff()
		assert.GreaterOrEqual(t, got, want, "interval %d", i)
		assert.Less(t, got, want+100*time.Millisecond, "interval %d", i)
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff())

	b.Reset()
	got := b.NextBackOff()
	assert.GreaterOrEqual(t, got, 250*time.Millisecond)
	assert.Less(t, got, 350*time.Millisecond)
}

func TestFetchSchema(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/databases/db1", r.URL.Path)
		w.Write([]byte(`{
			"object": "database",
			"id": "db1",
			"properties": {
				"Name":   {"id": "title", "type": "title"},
				"Status": {"id": "s1", "type": "select", "select": {"options": [
					{"name": "Open"}, {"name": "Closed"}
				]}},
				"Project": {"id": "r1", "type": "relation", "relation": {"database_id": "db2"}}
			}
		}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	schema, err := c.FetchSchema(context.Background(), "db1")
	require.NoError(t, err)

	assert.Equal(t, "db1", schema.DatabaseID)
	assert.Equal(t, "Name", schema.TitleProperty)

	status, ok := schema.Descriptor("Status")
	require.True(t, ok)
	assert.Equal(t, []string{"Open", "Closed"}, status.OptionNames())

	project, ok := schema.Descriptor("Project")
	require.True(t, ok)
	require.NotNil(t, project.Relation)
	assert.Equal(t, "db2", project.Relation.DatabaseID)

	_, ok = schema.Descriptor("Nope")
	assert.False(t, ok)
}

func TestListUsersFollowsPagination(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("start_cursor") == "" {
			w.Write([]byte(`{"results":[{"id":"u1","person":{"email":"a@example.com"}}],"has_more":true,"next_cursor":"c2"}`))
			return
		}
		w.Write([]byte(`{"results":[{"id":"u2","person":{"email":"b@example.com"}}],"has_more":false}`))
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)
	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
}
