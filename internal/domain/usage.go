package domain

import "time"

// UsageRecord captures one successful lookup. Records are append-only and
// persist across process runs.
type UsageRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Subcommand string    `json:"subcommand,omitempty"`
	Session    string    `json:"session,omitempty"`
}

// Identity returns the looked-up identity.
func (r UsageRecord) Identity() Identity {
	return Identity{Command: r.Command, Subcommand: r.Subcommand}
}

// UsageStat aggregates lookups of one identity.
type UsageStat struct {
	Identity Identity
	Count    int
	LastUsed time.Time
}
