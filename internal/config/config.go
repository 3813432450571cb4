// Package config loads the gateway's HCL configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level gateway configuration.
type Config struct {
	Server      *Server      `hcl:"server,block"`
	RecordStore *RecordStore `hcl:"record_store,block"`
	Databases   []*Database  `hcl:"database,block"`
	Export      *Export      `hcl:"export,block"`
}

// Server configures the HTTP listener and the shared-secret auth check.
type Server struct {
	// ListenAddr is the host:port to bind.
	ListenAddr string `hcl:"listen_addr,optional"`

	// AuthToken is the shared secret callers present as a Bearer
	// credential. Falls back to the PAGEBRIDGE_AUTH_TOKEN environment
	// variable when unset.
	AuthToken string `hcl:"auth_token,optional"`
}

// RecordStore configures the hosted workspace database provider.
type RecordStore struct {
	// BaseURL is the provider API root.
	BaseURL string `hcl:"base_url"`

	// APIToken is the provider integration token. Falls back to the
	// RECORDSTORE_API_TOKEN environment variable when unset.
	APIToken string `hcl:"api_token,optional"`

	// Version is the provider API version header value.
	Version string `hcl:"version,optional"`

	// TimeoutSeconds bounds one provider round trip.
	TimeoutSeconds int `hcl:"timeout_seconds,optional"`

	// MaxAttempts is the retry budget for conflict/rate-limited calls.
	MaxAttempts int `hcl:"max_attempts,optional"`
}

// Database maps a logical alias (e.g. "docs", "tasks", "roadmap") to a
// remote database id. The mapping is static for the process lifetime.
type Database struct {
	Alias string `hcl:"alias,label"`
	ID    string `hcl:"id"`
}

// Export configures the document export feature.
type Export struct {
	// DefaultFormat is used when a request names no format.
	DefaultFormat string `hcl:"default_format,optional"`
}

// NewConfig parses the config file at the given path and applies defaults
// and environment fallbacks.
func NewConfig(filename string) (*Config, error) {
	c := &Config{}
	if err := hclsimple.DecodeFile(filename, nil, c); err != nil {
		return nil, fmt.Errorf("error parsing configuration file: %w", err)
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "127.0.0.1:8787"
	}
	if c.Server.AuthToken == "" {
		c.Server.AuthToken = os.Getenv("PAGEBRIDGE_AUTH_TOKEN")
	}
	if c.RecordStore != nil && c.RecordStore.APIToken == "" {
		c.RecordStore.APIToken = os.Getenv("RECORDSTORE_API_TOKEN")
	}
	if c.Export == nil {
		c.Export = &Export{}
	}
	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = "markdown"
	}

	return c, nil
}

// Validate checks the configuration, aggregating all problems so operators
// see everything wrong in one pass.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.RecordStore == nil {
		result = multierror.Append(result,
			fmt.Errorf("record_store block is required"))
	} else {
		if err := validation.ValidateStruct(c.RecordStore,
			validation.Field(&c.RecordStore.BaseURL, validation.Required, is.URL),
			validation.Field(&c.RecordStore.APIToken, validation.Required),
		); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("record_store: %w", err))
		}
	}

	if c.Server.AuthToken == "" {
		result = multierror.Append(result,
			fmt.Errorf("server auth_token is required (or set PAGEBRIDGE_AUTH_TOKEN)"))
	}

	seen := map[string]bool{}
	for _, db := range c.Databases {
		if db.ID == "" {
			result = multierror.Append(result,
				fmt.Errorf("database %q: id is required", db.Alias))
		}
		if seen[db.Alias] {
			result = multierror.Append(result,
				fmt.Errorf("database %q: duplicate alias", db.Alias))
		}
		seen[db.Alias] = true
	}

	return result.ErrorOrNil()
}

// ResolveDatabase maps a logical database key to a remote database id. An
// unrecognized or absent key falls back to the first configured database,
// so a gateway with one database accepts any key.
func (c *Config) ResolveDatabase(key string) (string, bool) {
	for _, db := range c.Databases {
		if db.Alias == key {
			return db.ID, true
		}
	}
	if len(c.Databases) > 0 {
		return c.Databases[0].ID, true
	}
	return "", false
}

// StoreTimeout returns the configured provider timeout, or 0 for the client
// default.
func (c *Config) StoreTimeout() time.Duration {
	if c.RecordStore == nil || c.RecordStore.TimeoutSeconds == 0 {
		return 0
	}
	return time.Duration(c.RecordStore.TimeoutSeconds) * time.Second
}
