package domain

import "strings"

// Config is the persisted cref configuration (~/.cref/config.yaml).
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Preferences         Preferences     `yaml:"preferences"`
	Catalog             CatalogSettings `yaml:"catalog"`
	Usage               UsageSettings   `yaml:"usage"`
}

// Preferences holds display and behavior defaults.
type Preferences struct {
	// Color is one of "auto", "always", "never".
	Color string `yaml:"color"`
	// CopyMode copies resolved syntax to the clipboard after display.
	CopyMode bool `yaml:"copy_mode"`
	// ResultLimit caps history/search listings.
	ResultLimit int `yaml:"result_limit"`
}

// CatalogSettings controls catalog source discovery and merge policy.
type CatalogSettings struct {
	// UserDirs are additional directories of command definition documents,
	// merged after the embedded builtins in the order listed.
	UserDirs []string `yaml:"user_dirs"`
	// AllowOverride lets a later source tier replace an earlier one
	// instead of failing on a duplicate command name. Collisions within
	// the same tier always fail.
	AllowOverride bool `yaml:"allow_override"`
	// DisableBuiltins skips the embedded catalog entirely.
	DisableBuiltins bool `yaml:"disable_builtins"`
}

// UsageSettings controls the usage record store.
type UsageSettings struct {
	// Backend is "sqlite" or "jsonl".
	Backend string `yaml:"backend"`
	// RetentionDays prunes records older than this on startup; 0 keeps all.
	RetentionDays int `yaml:"retention_days"`
}

// ColorEnabled decides whether output should be colored given whether
// stdout is a terminal.
func (p Preferences) ColorEnabled(tty bool) bool {
	switch strings.ToLower(p.Color) {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}
