package domain

import (
	"errors"
	"fmt"
)

// Load errors are fatal at startup: the process must not continue with a
// partial catalog. Resolve errors are recoverable per query.

// MalformedSourceError reports a catalog document that does not match the
// expected shape. Source identifies the offending document.
type MalformedSourceError struct {
	Source string
	Err    error
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed catalog source %s: %v", e.Source, e.Err)
}

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// DuplicateCommandError reports a command name defined by more than one
// source at the same precedence tier.
type DuplicateCommandError struct {
	Name     string
	Source   string
	Previous string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command %q: defined in %s and %s", e.Name, e.Previous, e.Source)
}

// UnknownCommandError reports a lookup for a command not in the catalog.
// Suggestions holds close prefix/substring matches, best first.
type UnknownCommandError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("no such command: %s", e.Name)
}

// UnknownSubcommandError reports a lookup for a subcommand not defined by
// an otherwise known command.
type UnknownSubcommandError struct {
	Command     string
	Name        string
	Suggestions []string
}

func (e *UnknownSubcommandError) Error() string {
	return fmt.Sprintf("no such subcommand: %s %s", e.Command, e.Name)
}

// ErrEmptyQuery is returned when a search is requested with no query text.
var ErrEmptyQuery = errors.New("empty search query")

// ErrTooManyArguments exists for callers that opt into strict token
// handling; the resolver itself ignores trailing tokens.
var ErrTooManyArguments = errors.New("too many arguments")

// IsResolveError reports whether err belongs to the recoverable per-query
// error family (as opposed to fatal load/config errors).
func IsResolveError(err error) bool {
	var unknownCmd *UnknownCommandError
	var unknownSub *UnknownSubcommandError
	return errors.As(err, &unknownCmd) ||
		errors.As(err, &unknownSub) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrTooManyArguments)
}
