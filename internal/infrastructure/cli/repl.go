package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/services"
)

// runInteractive reads lookup queries in a loop until the user exits.
func runInteractive(e *env) error {
	return interactiveLoop(e, os.Stdin, os.Stdout)
}

func interactiveLoop(e *env, in io.Reader, out io.Writer) error {
	r := e.renderer()
	fmt.Fprintln(out, r.Welcome())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, r.paint(headerPaint, "cref> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		verb := strings.ToLower(tokens[0])
		rest := tokens[1:]

		switch verb {
		case "exit", "quit", "q":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help":
			fmt.Fprintln(out, r.Welcome())
		case "list":
			replLookup(e, r, out, nil, domain.ModeNormal)
		case "search":
			replSearch(e, r, out, rest)
		case "flags":
			replLookup(e, r, out, rest, domain.ModeFlags)
		case "quick":
			replLookup(e, r, out, commandOnly(rest), domain.ModeQuick)
		case "cheat", "cheatsheet":
			replLookup(e, r, out, commandOnly(rest), domain.ModeCheatsheet)
		case "history":
			records, err := e.container.Tracker.Recent(e.container.Config.Preferences.ResultLimit)
			if err != nil {
				fmt.Fprintln(out, r.Error(err))
				continue
			}
			fmt.Fprintln(out, r.RecentLookups(records))
		case "stats":
			stats, err := e.container.Tracker.Stats(e.container.Config.Preferences.ResultLimit)
			if err != nil {
				fmt.Fprintln(out, r.Error(err))
				continue
			}
			fmt.Fprintln(out, r.UsageStats(stats))
		case "context":
			wd, err := os.Getwd()
			if err != nil {
				fmt.Fprintln(out, r.Error(err))
				continue
			}
			detector := &ContextDetector{Catalog: e.container.Catalog}
			fmt.Fprintln(out, r.RenderDetections(wd, detector.Detect(wd)))
		default:
			replLookup(e, r, out, tokens, domain.ModeNormal)
		}
	}
}

// commandOnly trims a pasted "git commit" down to the command token for
// command-level views.
func commandOnly(tokens []string) []string {
	if len(tokens) > 1 {
		return tokens[:1]
	}
	return tokens
}

func replLookup(e *env, r *Renderer, out io.Writer, tokens []string, mode domain.RenderMode) {
	result, err := e.container.Resolver.Resolve(tokens, services.ModeLookup)
	if err != nil {
		fmt.Fprintln(out, r.Error(err))
		return
	}
	fmt.Fprintln(out, r.Render(result, mode))

	if result.Kind == domain.KindSubcommandDetail {
		id := domain.Identity{Command: result.Command.Name, Subcommand: result.Subcommand}
		if err := e.container.Tracker.Record(id); err != nil {
			e.container.Logger.Warn("usage record failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func replSearch(e *env, r *Renderer, out io.Writer, tokens []string) {
	result, err := e.container.Resolver.Resolve(tokens, services.ModeSearch)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			fmt.Fprintln(out, "Usage: search <query>")
			return
		}
		fmt.Fprintln(out, r.Error(err))
		return
	}
	limit := e.container.Config.Preferences.ResultLimit
	if limit > 0 && len(result.Hits) > limit {
		result.Hits = result.Hits[:limit]
	}
	fmt.Fprintln(out, r.Render(result, domain.ModeNormal))
}
