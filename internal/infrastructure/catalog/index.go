package catalog

import (
	"sort"
	"strings"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// Index is the derived search structure over a catalog: an inverted token
// index plus a per-identity text blob for substring search. Like the
// catalog it is built once and never mutated, so it is safe for
// concurrent readers.
type Index struct {
	catalog  *domain.Catalog
	postings map[string][]domain.Identity
	texts    map[domain.Identity]string
	cmdTexts map[string]string
}

// Build constructs the index for a catalog.
func Build(c *domain.Catalog) *Index {
	ix := &Index{
		catalog:  c,
		postings: make(map[string][]domain.Identity),
		texts:    make(map[domain.Identity]string),
		cmdTexts: make(map[string]string),
	}

	for _, name := range c.Names() {
		def, _ := c.Command(name)
		ix.cmdTexts[name] = strings.ToLower(def.Description)
		for _, sub := range def.SubOrder {
			id := domain.Identity{Command: name, Subcommand: sub}
			detail := def.Subcommands[sub]

			var tokens []string
			tokens = append(tokens, Tokenize(name)...)
			tokens = append(tokens, Tokenize(sub)...)
			tokens = append(tokens, Tokenize(detail.Description)...)
			for _, example := range detail.Examples {
				tokens = append(tokens, Tokenize(example.Explanation)...)
			}
			ix.addPostings(id, tokens)

			ix.texts[id] = searchText(detail)
		}
	}

	return ix
}

func (ix *Index) addPostings(id domain.Identity, tokens []string) {
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		ix.postings[token] = append(ix.postings[token], id)
	}
}

// searchText flattens the text a substring search runs over: description,
// flag strings and descriptions, example commands and explanations.
func searchText(detail domain.SubcommandDefinition) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(detail.Description))
	for _, flag := range detail.Flags {
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(flag.Flag))
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(flag.Description))
	}
	for _, example := range detail.Examples {
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(example.Command))
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(example.Explanation))
	}
	return b.String()
}

// Tokenize lower-cases, splits on non-alphanumeric boundaries, and drops
// empty tokens. No stemming, no synonym expansion.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isAlphanumeric(r)
	})
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Postings returns the identities whose indexed tokens include token,
// in catalog order.
func (ix *Index) Postings(token string) []domain.Identity {
	ids := ix.postings[strings.ToLower(token)]
	out := make([]domain.Identity, len(ids))
	copy(out, ids)
	return out
}

// TokenCount reports the number of distinct indexed tokens.
func (ix *Index) TokenCount() int {
	return len(ix.postings)
}

// Subcommands implements ports.SearchIndex.
func (ix *Index) Subcommands(command string) []string {
	def, ok := ix.catalog.Command(command)
	if !ok {
		return nil
	}
	out := make([]string, len(def.SubOrder))
	copy(out, def.SubOrder)
	return out
}

// Search implements ports.SearchIndex. Hits are ranked: exact command
// name, command-name substring, subcommand-name substring, then text
// matches; ties keep catalog order. The text tier unions substring
// matches over description/flag/example text with token-exact hits from
// the inverted index, so a query equal to an indexed token (a command
// name, say) also surfaces the entries filed under it.
func (ix *Index) Search(query string) []domain.SearchHit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	tokenHits := make(map[domain.Identity]bool)
	if toks := Tokenize(q); len(toks) == 1 && toks[0] == q {
		for _, id := range ix.postings[q] {
			tokenHits[id] = true
		}
	}

	var exact, byCommand, bySubcommand, byText []domain.SearchHit

	for _, name := range ix.catalog.Names() {
		def, _ := ix.catalog.Command(name)
		switch {
		case name == q:
			exact = append(exact, domain.SearchHit{
				Identity:    domain.Identity{Command: name},
				Kind:        domain.MatchExactCommand,
				Description: def.Description,
			})
		case strings.Contains(name, q):
			byCommand = append(byCommand, domain.SearchHit{
				Identity:    domain.Identity{Command: name},
				Kind:        domain.MatchCommandName,
				Description: def.Description,
			})
		case strings.Contains(ix.cmdTexts[name], q):
			byText = append(byText, domain.SearchHit{
				Identity:    domain.Identity{Command: name},
				Kind:        domain.MatchText,
				Description: def.Description,
			})
		}

		for _, sub := range def.SubOrder {
			id := domain.Identity{Command: name, Subcommand: sub}
			detail := def.Subcommands[sub]
			if strings.Contains(sub, q) {
				bySubcommand = append(bySubcommand, domain.SearchHit{
					Identity:    id,
					Kind:        domain.MatchSubcommandName,
					Description: detail.Description,
				})
				continue
			}
			if tokenHits[id] || strings.Contains(ix.texts[id], q) {
				byText = append(byText, domain.SearchHit{
					Identity:    id,
					Kind:        domain.MatchText,
					Description: detail.Description,
				})
			}
		}
	}

	hits := make([]domain.SearchHit, 0, len(exact)+len(byCommand)+len(bySubcommand)+len(byText))
	hits = append(hits, exact...)
	hits = append(hits, byCommand...)
	hits = append(hits, bySubcommand...)
	hits = append(hits, byText...)
	return hits
}

// SuggestCommands returns commands close to partial: prefix matches
// first, substring matches only when no prefix matches, each sorted.
func (ix *Index) SuggestCommands(partial string) []string {
	return suggest(ix.catalog.Names(), partial)
}

// SuggestSubcommands returns subcommands of command close to partial.
func (ix *Index) SuggestSubcommands(command, partial string) []string {
	return suggest(ix.Subcommands(command), partial)
}

func suggest(candidates []string, partial string) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" {
		return nil
	}
	var prefix, contains []string
	for _, name := range candidates {
		switch {
		case strings.HasPrefix(name, partial):
			prefix = append(prefix, name)
		case strings.Contains(name, partial):
			contains = append(contains, name)
		}
	}
	if len(prefix) > 0 {
		sort.Strings(prefix)
		return prefix
	}
	sort.Strings(contains)
	return contains
}

var _ ports.SearchIndex = (*Index)(nil)
