package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/doeshing/cref-go/internal/domain"
)

const ruleWidth = 70

// Renderer formats resolved results as text. Output is deterministic:
// the same result and mode always produce byte-identical output for a
// given color setting.
type Renderer struct {
	Color bool
	Now   func() time.Time
}

// NewRenderer builds a renderer. useColor should already account for tty
// detection and --no-color.
func NewRenderer(useColor bool) *Renderer {
	return &Renderer{Color: useColor, Now: time.Now}
}

var (
	headerPaint = color.New(color.FgCyan, color.Bold)
	namePaint   = color.New(color.FgYellow)
	syntaxPaint = color.New(color.FgGreen)
	flagPaint   = color.New(color.FgCyan)
	boldPaint   = color.New(color.Bold)
	dimPaint    = color.New(color.FgHiBlack)
	errorPaint  = color.New(color.FgRed)
	labelPaint  = color.New(color.FgYellow, color.Bold)
)

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.Color {
		return s
	}
	return c.Sprint(s)
}

// Render formats a resolved result in the requested mode. It is total
// over ResolvedResult: a combination it cannot render is a programming
// error and falls through to normal mode rather than failing.
func (r *Renderer) Render(result domain.ResolvedResult, mode domain.RenderMode) string {
	switch result.Kind {
	case domain.KindAllCommands:
		return r.CommandList(result.Commands)
	case domain.KindCommandSubcommands:
		switch mode {
		case domain.ModeFlags:
			return r.AllFlags(result.Command)
		case domain.ModeQuick:
			return r.QuickReference(result.Command)
		case domain.ModeCheatsheet:
			return r.Cheatsheet(result.Command)
		default:
			return r.SubcommandList(result.Command)
		}
	case domain.KindSubcommandDetail:
		if mode == domain.ModeFlags {
			return r.SubcommandFlags(result.Command.Name, result.Subcommand, result.Detail)
		}
		return r.SubcommandDetail(result.Command.Name, result.Subcommand, result.Detail)
	case domain.KindSearchHits:
		return r.SearchResults(result.Query, result.Hits)
	default:
		return ""
	}
}

// CommandList formats the full command listing.
func (r *Renderer) CommandList(commands []domain.CommandSummary) string {
	var out []string
	out = append(out, r.paint(headerPaint, "Available Commands:"), "")
	width := 0
	for _, cmd := range commands {
		if len(cmd.Name) > width {
			width = len(cmd.Name)
		}
	}
	for _, cmd := range commands {
		padded := fmt.Sprintf("%-*s", width+2, cmd.Name)
		out = append(out, fmt.Sprintf("  %s %s %s",
			r.paint(syntaxPaint, "*"),
			r.paint(namePaint, padded),
			r.paint(dimPaint, cmd.Description)))
	}
	out = append(out, "", r.paint(dimPaint, "Tip:")+" use 'cref <command>' to see subcommands (e.g. 'cref git')")
	return strings.Join(out, "\n")
}

// SubcommandList formats a command's subcommand listing.
func (r *Renderer) SubcommandList(cmd domain.CommandDefinition) string {
	var out []string
	out = append(out, r.paint(headerPaint, strings.ToUpper(cmd.Name)))
	if cmd.Description != "" {
		out = append(out, r.paint(dimPaint, cmd.Description))
	}
	out = append(out, "", r.paint(boldPaint, "Subcommands:"), "")
	width := 0
	for _, sub := range cmd.SubOrder {
		if len(sub) > width {
			width = len(sub)
		}
	}
	for _, sub := range cmd.SubOrder {
		padded := fmt.Sprintf("%-*s", width+2, sub)
		out = append(out, fmt.Sprintf("  %s %s %s",
			r.paint(syntaxPaint, "*"),
			r.paint(namePaint, padded),
			r.paint(dimPaint, cmd.Subcommands[sub].Description)))
	}
	example := "..."
	if len(cmd.SubOrder) > 0 {
		example = cmd.SubOrder[0]
	}
	out = append(out, "", fmt.Sprintf("%s use 'cref %s <subcommand>' for details (e.g. 'cref %s %s')",
		r.paint(dimPaint, "Tip:"), cmd.Name, cmd.Name, example))
	return strings.Join(out, "\n")
}

// SubcommandDetail formats the full view of one subcommand.
func (r *Renderer) SubcommandDetail(command, subcommand string, detail domain.SubcommandDefinition) string {
	full := command + " " + subcommand
	rule := strings.Repeat("=", ruleWidth)

	var out []string
	out = append(out,
		r.paint(headerPaint, rule),
		r.paint(headerPaint, "  "+strings.ToUpper(full)),
		r.paint(headerPaint, rule),
		"")

	if detail.Description != "" {
		out = append(out, r.paint(labelPaint, "Description:"), "  "+detail.Description, "")
	}
	if detail.Syntax != "" {
		out = append(out, r.paint(labelPaint, "Syntax:"), "  "+r.paint(syntaxPaint, detail.Syntax), "")
	}
	if len(detail.Flags) > 0 {
		out = append(out, r.paint(labelPaint, "Common Flags:"))
		for _, flag := range detail.Flags {
			out = append(out, r.paint(flagPaint, "  "+flag.Flag), "    "+flag.Description)
		}
		out = append(out, "")
	}
	if len(detail.Examples) > 0 {
		out = append(out, r.paint(labelPaint, "Examples:"))
		for i, example := range detail.Examples {
			out = append(out, fmt.Sprintf("  %s %s",
				r.paint(dimPaint, fmt.Sprintf("%d.", i+1)),
				example.Explanation))
			out = append(out, fmt.Sprintf("     %s %s",
				r.paint(syntaxPaint, "$"),
				r.paint(boldPaint, example.Command)))
			if i < len(detail.Examples)-1 {
				out = append(out, "")
			}
		}
	}

	out = append(out, "", r.paint(dimPaint, strings.Repeat("-", ruleWidth)))
	return strings.Join(out, "\n")
}

// SubcommandFlags formats the condensed flag view for one subcommand.
func (r *Renderer) SubcommandFlags(command, subcommand string, detail domain.SubcommandDefinition) string {
	var out []string
	out = append(out, r.paint(headerPaint, strings.ToUpper(command+" "+subcommand)+" - FLAGS"), "")
	if detail.Syntax != "" {
		out = append(out, fmt.Sprintf("%s %s", r.paint(namePaint, "Syntax:"), detail.Syntax), "")
	}
	out = append(out, r.flagTable(detail.Flags)...)
	out = append(out, "")
	return strings.Join(out, "\n")
}

// AllFlags formats the condensed flag view across every subcommand of a
// command.
func (r *Renderer) AllFlags(cmd domain.CommandDefinition) string {
	var out []string
	out = append(out, r.paint(headerPaint, strings.ToUpper(cmd.Name)+" - ALL FLAGS"), "")
	rendered := false
	for _, sub := range cmd.SubOrder {
		detail := cmd.Subcommands[sub]
		if len(detail.Flags) == 0 {
			continue
		}
		rendered = true
		out = append(out, r.paint(namePaint, sub+":"))
		out = append(out, r.flagTable(detail.Flags)...)
		out = append(out, "")
	}
	if !rendered {
		out = append(out, r.paint(dimPaint, "No flags found for this command"), "")
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) flagTable(flags []domain.FlagDefinition) []string {
	if len(flags) == 0 {
		return []string{r.paint(dimPaint, "  No flags available for this command")}
	}
	width := 0
	for _, flag := range flags {
		if len(flag.Flag) > width {
			width = len(flag.Flag)
		}
	}
	var out []string
	for _, flag := range flags {
		padded := fmt.Sprintf("%-*s", width+2, flag.Flag)
		out = append(out, fmt.Sprintf("  %s %s", r.paint(flagPaint, padded), flag.Description))
	}
	return out
}

// QuickReference formats the one-line-per-subcommand overview.
func (r *Renderer) QuickReference(cmd domain.CommandDefinition) string {
	var out []string
	out = append(out, r.paint(headerPaint, strings.ToUpper(cmd.Name)+" - QUICK REFERENCE"), "")
	width := 0
	for _, sub := range cmd.SubOrder {
		if len(sub) > width {
			width = len(sub)
		}
	}
	for _, sub := range cmd.SubOrder {
		desc := cmd.Subcommands[sub].Description
		if desc == "" {
			desc = "No description"
		}
		desc = truncate(desc, 60)
		padded := fmt.Sprintf("%-*s", width+2, sub)
		out = append(out, fmt.Sprintf("  %s %s", r.paint(namePaint, padded), r.paint(dimPaint, desc)))
	}
	out = append(out, "", r.paint(dimPaint, fmt.Sprintf("Tip: use 'cref %s <subcommand>' for details", cmd.Name)), "")
	return strings.Join(out, "\n")
}

// Cheatsheet formats the compact single-page reference for a command.
func (r *Renderer) Cheatsheet(cmd domain.CommandDefinition) string {
	rule := strings.Repeat("=", ruleWidth)
	var out []string
	out = append(out,
		r.paint(headerPaint, rule),
		r.paint(headerPaint, "  "+strings.ToUpper(cmd.Name)+" CHEAT SHEET"),
		r.paint(headerPaint, rule),
		"")
	if cmd.Description != "" {
		out = append(out, r.paint(dimPaint, cmd.Description), "")
	}
	for _, sub := range cmd.SubOrder {
		detail := cmd.Subcommands[sub]
		out = append(out, r.paint(labelPaint, sub))
		if detail.Description != "" {
			out = append(out, "  "+detail.Description)
		}
		if detail.Syntax != "" {
			out = append(out, fmt.Sprintf("  %s %s",
				r.paint(syntaxPaint, "$"),
				r.paint(boldPaint, detail.Syntax)))
		}
		if len(detail.Flags) > 0 {
			names := make([]string, 0, len(detail.Flags))
			for _, flag := range detail.Flags {
				names = append(names, flag.Flag)
			}
			out = append(out, fmt.Sprintf("  %s %s",
				r.paint(flagPaint, "Flags:"),
				truncate(strings.Join(names, ", "), 60)))
		}
		if len(detail.Examples) > 0 {
			out = append(out, fmt.Sprintf("  %s %s",
				r.paint(flagPaint, "Example:"),
				detail.Examples[0].Command))
		}
		out = append(out, "")
	}
	out = append(out, r.paint(dimPaint, rule))
	return strings.Join(out, "\n")
}

// SearchResults formats ranked search hits.
func (r *Renderer) SearchResults(query string, hits []domain.SearchHit) string {
	var out []string
	out = append(out, r.paint(headerPaint, fmt.Sprintf("Search results for: %q", query)), "")
	if len(hits) == 0 {
		out = append(out, r.paint(dimPaint, fmt.Sprintf("No results found for %q", query)))
		return strings.Join(out, "\n")
	}
	width := 0
	for _, hit := range hits {
		if l := len(hit.Identity.String()); l > width {
			width = l
		}
	}
	for _, hit := range hits {
		padded := fmt.Sprintf("%-*s", width+2, hit.Identity.String())
		out = append(out, fmt.Sprintf("  %s %s %s",
			r.paint(syntaxPaint, "*"),
			r.paint(namePaint, padded),
			r.paint(dimPaint, truncate(hit.Description, 60))))
	}
	return strings.Join(out, "\n")
}

// RecentLookups formats the history view with humanized timestamps.
func (r *Renderer) RecentLookups(records []domain.UsageRecord) string {
	if len(records) == 0 {
		return "No lookups recorded yet."
	}
	var out []string
	out = append(out, r.paint(headerPaint, "RECENT LOOKUPS"), "")
	for _, rec := range records {
		when := humanize.RelTime(rec.Timestamp, r.now(), "ago", "from now")
		out = append(out, fmt.Sprintf("  %-18s %s", when, r.paint(namePaint, rec.Identity().String())))
	}
	return strings.Join(out, "\n")
}

// UsageStats formats the most-used view.
func (r *Renderer) UsageStats(stats []domain.UsageStat) string {
	if len(stats) == 0 {
		return "No lookups recorded yet."
	}
	var out []string
	out = append(out, r.paint(headerPaint, "MOST USED"), "")
	for _, stat := range stats {
		out = append(out, fmt.Sprintf("  %3dx  %s", stat.Count, r.paint(namePaint, stat.Identity.String())))
	}
	return strings.Join(out, "\n")
}

// Error formats a resolve error as a user-facing message, including
// suggestions when available.
func (r *Renderer) Error(err error) string {
	var unknownCmd *domain.UnknownCommandError
	var unknownSub *domain.UnknownSubcommandError

	switch {
	case errors.As(err, &unknownCmd):
		msg := r.paint(errorPaint, fmt.Sprintf("Error: command '%s' not found", unknownCmd.Name))
		if len(unknownCmd.Suggestions) > 0 {
			msg += "\n\nDid you mean: " + strings.Join(capped(unknownCmd.Suggestions, 3), ", ") + "?"
		}
		msg += fmt.Sprintf("\n%s try 'cref search %s' to search descriptions and examples",
			r.paint(dimPaint, "Tip:"), unknownCmd.Name)
		return msg
	case errors.As(err, &unknownSub):
		msg := r.paint(errorPaint, fmt.Sprintf("Error: subcommand '%s %s' not found", unknownSub.Command, unknownSub.Name))
		if len(unknownSub.Suggestions) > 0 {
			msg += "\n\nDid you mean: " + strings.Join(capped(unknownSub.Suggestions, 3), ", ") + "?"
		}
		return msg
	case errors.Is(err, domain.ErrEmptyQuery):
		return r.paint(errorPaint, "Error: please provide a search query")
	default:
		return r.paint(errorPaint, "Error: "+err.Error())
	}
}

// Welcome formats the interactive-mode banner.
func (r *Renderer) Welcome() string {
	rule := strings.Repeat("=", 46)
	var out []string
	out = append(out,
		r.paint(headerPaint, rule),
		r.paint(headerPaint, "     cref - command reference"),
		r.paint(headerPaint, rule),
		"",
		"Type a command to get help:")
	tips := [][2]string{
		{"git", "show git subcommands"},
		{"git commit", "show git commit details"},
		{"flags git", "all git flags (condensed)"},
		{"quick git", "quick reference for git"},
		{"cheat git", "git cheat sheet"},
		{"list", "show all available commands"},
		{"search <query>", "search the catalog"},
		{"history", "recent lookups"},
		{"stats", "most used lookups"},
		{"exit", "leave interactive mode"},
	}
	for _, tip := range tips {
		out = append(out, fmt.Sprintf("  * %-16s %s", r.paint(namePaint, fmt.Sprintf("%-16s", tip[0])), tip[1]))
	}
	out = append(out, "")
	return strings.Join(out, "\n")
}

// HealthReport formats doctor output.
func (r *Renderer) HealthReport(report domain.HealthReport) string {
	var out []string
	for _, check := range report.Checks {
		var status string
		switch check.Status {
		case domain.HealthOK:
			status = r.paint(syntaxPaint, "[ok]  ")
		case domain.HealthWarn:
			status = r.paint(namePaint, "[warn]")
		default:
			status = r.paint(errorPaint, "[fail]")
		}
		out = append(out, fmt.Sprintf("%s %-14s %s", status, check.Name, check.Details))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
