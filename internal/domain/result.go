package domain

// ResultKind tags the variant carried by a ResolvedResult.
type ResultKind int

const (
	KindAllCommands ResultKind = iota
	KindCommandSubcommands
	KindSubcommandDetail
	KindSearchHits
)

// CommandSummary is a (name, description) pair for listings.
type CommandSummary struct {
	Name        string
	Description string
}

// MatchKind ranks how a search hit matched the query. Lower is better.
type MatchKind int

const (
	MatchExactCommand MatchKind = iota
	MatchCommandName
	MatchSubcommandName
	MatchText
)

// SearchHit is one ranked search result. Identity.Subcommand is empty for
// command-level hits.
type SearchHit struct {
	Identity    Identity
	Kind        MatchKind
	Description string
}

// ResolvedResult is the typed outcome of a query, prior to rendering.
// Kind selects which fields are populated.
type ResolvedResult struct {
	Kind ResultKind

	// KindAllCommands
	Commands []CommandSummary

	// KindCommandSubcommands and KindSubcommandDetail
	Command CommandDefinition

	// KindSubcommandDetail
	Subcommand string
	Detail     SubcommandDefinition

	// KindSearchHits
	Query string
	Hits  []SearchHit
}

// RenderMode selects the output format for a resolved result.
type RenderMode string

const (
	ModeNormal     RenderMode = "normal"
	ModeFlags      RenderMode = "flags"
	ModeQuick      RenderMode = "quick"
	ModeCheatsheet RenderMode = "cheatsheet"
)
