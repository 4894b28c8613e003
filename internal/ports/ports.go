// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (internal/services) depends only on these
// abstractions; concrete adapters live in the infrastructure layer.
package ports

import (
	"context"

	"github.com/doeshing/cref-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cref/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CatalogProvider loads and merges command definition documents into an
// immutable catalog. A load failure is fatal: the process must not
// continue with a partial catalog.
type CatalogProvider interface {
	Load(context.Context) (*domain.Catalog, error)
}

// SearchIndex answers search and listing queries over a built catalog.
type SearchIndex interface {
	// Search returns ranked hits for a case-insensitive substring query.
	// An empty result is valid, not an error.
	Search(query string) []domain.SearchHit
	// Subcommands returns a command's subcommand names in catalog order.
	Subcommands(command string) []string
	// SuggestCommands returns command names close to a partial token:
	// prefix matches first, substring matches only when no prefix matches.
	SuggestCommands(partial string) []string
	// SuggestSubcommands is SuggestCommands scoped to one command.
	SuggestSubcommands(command, partial string) []string
}

// UsageStore persists the append-only usage record log.
// Appends must be serialized by the implementation (single-writer).
type UsageStore interface {
	Save(domain.UsageRecord) error
	// Records returns entries newest first; limit <= 0 returns all.
	Records(limit int) ([]domain.UsageRecord, error)
	Clear() error
	PruneOlderThan(days int) error
	Path() string
}

// Clipboard provides cross-platform clipboard integration for copying
// command syntax without manually selecting text.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Logger provides a logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
