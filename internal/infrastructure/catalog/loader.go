// Package catalog loads command definition documents and builds the
// in-memory catalog and search index over them.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cref-go/assets"
	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/pkg/filesystem"
	"github.com/doeshing/cref-go/internal/ports"
)

// Loader discovers and merges command definition documents. Sources are
// ordered by precedence tier: embedded builtins first, then each user
// directory in configured order; files within a tier are visited in
// lexicographic order.
type Loader struct {
	builtins        fs.FS
	userDirs        []string
	allowOverride   bool
	disableBuiltins bool
	logger          ports.Logger
}

// NewLoader builds a loader from configuration, using the embedded
// builtin catalog.
func NewLoader(cfg domain.Config, log ports.Logger) *Loader {
	return &Loader{
		builtins:        assets.BuiltinCatalog(),
		userDirs:        cfg.Catalog.UserDirs,
		allowOverride:   cfg.Catalog.AllowOverride,
		disableBuiltins: cfg.Catalog.DisableBuiltins,
		logger:          log,
	}
}

// NewLoaderFS builds a loader over an explicit builtin filesystem.
// Used by tests and by the doctor service.
func NewLoaderFS(builtins fs.FS, userDirs []string, allowOverride bool, log ports.Logger) *Loader {
	return &Loader{
		builtins:      builtins,
		userDirs:      userDirs,
		allowOverride: allowOverride,
		logger:        log,
	}
}

type source struct {
	name string
	data []byte
	tier int
}

// rawCommand is the on-disk shape of one catalog entry.
type rawCommand struct {
	Description string                                 `json:"description" yaml:"description"`
	Subcommands map[string]domain.SubcommandDefinition `json:"subcommands" yaml:"subcommands"`
}

// Load implements ports.CatalogProvider. It fails fast: any malformed
// source or duplicate command name aborts the load, so the caller never
// sees a partial catalog.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	sources, err := l.collectSources()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]domain.CommandDefinition)
	tierOf := make(map[string]int)

	for _, src := range sources {
		doc, err := parseDocument(src.name, src.data)
		if err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(doc) {
			def, err := l.validate(src.name, key, doc[key])
			if err != nil {
				return nil, err
			}
			if prev, exists := merged[def.Name]; exists {
				if !l.allowOverride || tierOf[def.Name] == src.tier {
					return nil, &domain.DuplicateCommandError{
						Name:     def.Name,
						Source:   src.name,
						Previous: prev.Source,
					}
				}
				l.debug("overriding builtin command", map[string]interface{}{
					"command": def.Name, "source": src.name,
				})
			}
			merged[def.Name] = def
			tierOf[def.Name] = src.tier
		}
	}

	defs := make([]domain.CommandDefinition, 0, len(merged))
	for _, def := range merged {
		defs = append(defs, def)
	}
	return domain.NewCatalog(defs), nil
}

func (l *Loader) collectSources() ([]source, error) {
	var sources []source

	if !l.disableBuiltins && l.builtins != nil {
		names, err := fs.Glob(l.builtins, "*.json")
		if err != nil {
			return nil, err
		}
		sort.Strings(names)
		for _, name := range names {
			data, err := fs.ReadFile(l.builtins, name)
			if err != nil {
				return nil, err
			}
			sources = append(sources, source{name: "builtin:" + name, data: data, tier: 0})
		}
	}

	for i, dir := range l.userDirs {
		dir = expandPath(dir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
		}
		var names []string
		for _, entry := range entries {
			if entry.IsDir() || !isCatalogFile(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read catalog source %s: %w", path, err)
			}
			sources = append(sources, source{name: path, data: data, tier: i + 1})
		}
	}

	return sources, nil
}

func parseDocument(name string, data []byte) (map[string]rawCommand, error) {
	var doc map[string]rawCommand
	var err error
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &domain.MalformedSourceError{Source: name, Err: err}
	}
	if len(doc) == 0 {
		return nil, &domain.MalformedSourceError{Source: name, Err: fmt.Errorf("document defines no commands")}
	}
	return doc, nil
}

func (l *Loader) validate(src, name string, raw rawCommand) (domain.CommandDefinition, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return domain.CommandDefinition{}, &domain.MalformedSourceError{
			Source: src, Err: fmt.Errorf("empty command name"),
		}
	}

	subs := make(map[string]domain.SubcommandDefinition, len(raw.Subcommands))
	for subName, sub := range raw.Subcommands {
		subName = strings.ToLower(strings.TrimSpace(subName))
		if sub.Syntax == "" || sub.Description == "" {
			return domain.CommandDefinition{}, &domain.MalformedSourceError{
				Source: src,
				Err:    fmt.Errorf("subcommand %s %s: syntax and description are required", name, subName),
			}
		}
		if sub.Flags == nil {
			sub.Flags = []domain.FlagDefinition{}
		}
		if sub.Examples == nil {
			sub.Examples = []domain.ExampleDefinition{}
		}
		l.warnDuplicateFlags(src, name, subName, sub.Flags)
		subs[subName] = sub
	}

	return domain.CommandDefinition{
		Name:        name,
		Description: raw.Description,
		Subcommands: subs,
		Source:      src,
	}, nil
}

// Duplicate flag strings are legal but almost always an authoring
// mistake, so they are surfaced as a warning rather than an error.
func (l *Loader) warnDuplicateFlags(src, cmd, sub string, flags []domain.FlagDefinition) {
	seen := make(map[string]bool, len(flags))
	for _, flag := range flags {
		if seen[flag.Flag] {
			l.warn("duplicate flag in catalog source", map[string]interface{}{
				"source": src, "command": cmd, "subcommand": sub, "flag": flag.Flag,
			})
		}
		seen[flag.Flag] = true
	}
}

func (l *Loader) warn(msg string, fields map[string]interface{}) {
	if l.logger != nil {
		l.logger.Warn(msg, fields)
	}
}

func (l *Loader) debug(msg string, fields map[string]interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, fields)
	}
}

func isCatalogFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortedKeys(doc map[string]rawCommand) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

var _ ports.CatalogProvider = (*Loader)(nil)
