package upsert

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Directory is a process-lifetime index of workspace users by email. It is
// built lazily on first lookup and reused across requests without
// invalidation: a user added to the workspace after the first people lookup
// is not visible until restart. That staleness window is accepted in
// exchange for one directory fetch per process instead of one per request.
type Directory struct {
	store  Store
	logger hclog.Logger

	mu      sync.Mutex
	built   bool
	byEmail map[string]string
}

// NewDirectory creates a directory over the given store. The logger may be
// nil.
func NewDirectory(store Store, logger hclog.Logger) *Directory {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Directory{store: store, logger: logger}
}

// Lookup resolves an email address to a user id. Emails are compared
// case-insensitively. The first call builds the index; a build failure is
// logged and reported as a miss so the next lookup retries.
func (d *Directory) Lookup(ctx context.Context, email string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.built {
		users, err := d.store.ListUsers(ctx)
		if err != nil {
			d.logger.Warn("failed to build people directory", "error", err)
			return "", false
		}
		d.byEmail = make(map[string]string, len(users))
		for _, u := range users {
			if u.Person != nil && u.Person.Email != "" {
				d.byEmail[strings.ToLower(u.Person.Email)] = u.ID
			}
		}
		d.built = true
		d.logger.Debug("built people directory", "entries", len(d.byEmail))
	}

	id, ok := d.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return id, ok
}
