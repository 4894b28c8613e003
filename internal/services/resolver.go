package services

import (
	"errors"
	"strings"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// QueryMode selects how tokens are interpreted.
type QueryMode int

const (
	ModeLookup QueryMode = iota
	ModeSearch
)

// Resolver turns a tokenized user query into a typed result.
type Resolver struct {
	Catalog *domain.Catalog
	Index   ports.SearchIndex
	Logger  ports.Logger
}

// Resolve applies the lookup decision table, in order:
//
//  1. zero tokens, lookup  -> AllCommands
//  2. search               -> SearchHits over the joined query
//  3. one token, lookup    -> CommandSubcommands or UnknownCommand
//  4. two tokens, lookup   -> SubcommandDetail or UnknownSubcommand
//
// Tokens beyond the second are ignored (lenient CLI convention), so
// pasting "git commit --amend" still resolves git commit. Name matching
// is case-insensitive throughout.
func (r *Resolver) Resolve(tokens []string, mode QueryMode) (domain.ResolvedResult, error) {
	if r.Catalog == nil || r.Index == nil {
		return domain.ResolvedResult{}, errors.New("services.Resolver dependencies not satisfied")
	}

	if mode == ModeSearch {
		return r.search(strings.Join(tokens, " "))
	}

	if len(tokens) == 0 {
		return r.allCommands(), nil
	}

	name := strings.ToLower(tokens[0])
	def, ok := r.Catalog.Command(name)
	if !ok {
		return domain.ResolvedResult{}, &domain.UnknownCommandError{
			Name:        name,
			Suggestions: r.Index.SuggestCommands(name),
		}
	}

	if len(tokens) == 1 {
		return domain.ResolvedResult{
			Kind:    domain.KindCommandSubcommands,
			Command: def,
		}, nil
	}

	subName := strings.ToLower(tokens[1])
	detail, ok := def.Subcommand(subName)
	if !ok {
		return domain.ResolvedResult{}, &domain.UnknownSubcommandError{
			Command:     def.Name,
			Name:        subName,
			Suggestions: r.Index.SuggestSubcommands(def.Name, subName),
		}
	}

	r.debug("resolved subcommand", map[string]interface{}{
		"command": def.Name, "subcommand": subName,
	})

	return domain.ResolvedResult{
		Kind:       domain.KindSubcommandDetail,
		Command:    def,
		Subcommand: subName,
		Detail:     detail,
	}, nil
}

func (r *Resolver) search(query string) (domain.ResolvedResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ResolvedResult{}, domain.ErrEmptyQuery
	}
	return domain.ResolvedResult{
		Kind:  domain.KindSearchHits,
		Query: query,
		Hits:  r.Index.Search(query),
	}, nil
}

func (r *Resolver) allCommands() domain.ResolvedResult {
	names := r.Catalog.Names()
	commands := make([]domain.CommandSummary, 0, len(names))
	for _, name := range names {
		def, _ := r.Catalog.Command(name)
		commands = append(commands, domain.CommandSummary{
			Name:        name,
			Description: def.Description,
		})
	}
	return domain.ResolvedResult{
		Kind:     domain.KindAllCommands,
		Commands: commands,
	}
}

func (r *Resolver) debug(msg string, fields map[string]interface{}) {
	if r.Logger != nil {
		r.Logger.Debug(msg, fields)
	}
}
