// Package cli wires the cobra command tree and output rendering.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/doeshing/cref-go/internal/app"
	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/services"
)

// ErrReported marks an error that has already been rendered for the
// user; main should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

type env struct {
	container *app.Container
	clipboard *Clipboard
	noColor   bool
}

func (e *env) renderer() *Renderer {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	useColor := e.container.Config.Preferences.ColorEnabled(tty) && !e.noColor
	return NewRenderer(useColor)
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	e := &env{container: container, clipboard: NewClipboard()}

	var (
		flagsOnly   bool
		cheatsheet  bool
		quick       bool
		copyCmd     bool
		interactive bool
	)

	root := &cobra.Command{
		Use:   "cref [command] [subcommand]",
		Short: "cref - command-line reference tool",
		Long: "cref looks up syntax, flags, and examples for common command-line\n" +
			"tools from a local catalog. No network, no execution; just answers.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return runInteractive(e)
			}
			// Bare invocation on a terminal drops into the interactive
			// loop; piped or scripted callers get the full listing.
			if len(args) == 0 && !flagsOnly && !cheatsheet && !quick &&
				isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
				return runInteractive(e)
			}
			mode := domain.ModeNormal
			switch {
			case cheatsheet:
				mode = domain.ModeCheatsheet
			case quick:
				mode = domain.ModeQuick
			case flagsOnly:
				mode = domain.ModeFlags
			}
			// Cheatsheet and quick views are command-level: a pasted
			// subcommand token would otherwise narrow them to one entry.
			if (mode == domain.ModeCheatsheet || mode == domain.ModeQuick) && len(args) > 1 {
				args = args[:1]
			}
			return e.lookup(args, mode, copyCmd)
		},
	}

	root.PersistentFlags().BoolVar(&e.noColor, "no-color", false, "Disable colored output")
	root.Flags().BoolVarP(&flagsOnly, "flags", "l", false, "Show only flags (condensed view)")
	root.Flags().BoolVarP(&cheatsheet, "cheatsheet", "c", false, "Show a one-page cheat sheet for a command")
	root.Flags().BoolVarP(&quick, "quick", "q", false, "Show a quick one-line-per-subcommand reference")
	root.Flags().BoolVar(&copyCmd, "copy", false, "Copy the resolved syntax to the clipboard")
	root.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start interactive mode")

	root.AddCommand(newListCommand(e))
	root.AddCommand(newSearchCommand(e))
	root.AddCommand(newHistoryCommand(e))
	root.AddCommand(newContextCommand(e))
	root.AddCommand(newDoctorCommand(e))
	root.AddCommand(newVersionCommand())
	return root, nil
}

// lookup resolves tokens, renders the result, and records successful
// subcommand lookups.
func (e *env) lookup(tokens []string, mode domain.RenderMode, copyCmd bool) error {
	r := e.renderer()
	result, err := e.container.Resolver.Resolve(tokens, services.ModeLookup)
	if err != nil {
		return e.report(r, err)
	}
	fmt.Println(r.Render(result, mode))

	if result.Kind == domain.KindSubcommandDetail {
		id := domain.Identity{Command: result.Command.Name, Subcommand: result.Subcommand}
		if err := e.container.Tracker.Record(id); err != nil {
			e.container.Logger.Warn("usage record failed", map[string]interface{}{"error": err.Error()})
		}
		if copyCmd || e.container.Config.Preferences.CopyMode {
			e.copySyntax(r, result.Detail.Syntax)
		}
	}
	return nil
}

func (e *env) copySyntax(r *Renderer, syntax string) {
	if syntax == "" {
		return
	}
	if err := e.clipboard.Copy(syntax); err != nil {
		fmt.Println(r.paint(dimPaint, "(clipboard unavailable: "+err.Error()+")"))
		return
	}
	fmt.Println(r.paint(dimPaint, "Copied to clipboard: "+syntax))
}

// report renders a resolve error as a friendly message. Unexpected
// errors propagate to main unchanged.
func (e *env) report(r *Renderer, err error) error {
	if domain.IsResolveError(err) {
		fmt.Println(r.Error(err))
		return ErrReported
	}
	return err
}

func newListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all commands in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.lookup(nil, domain.ModeNormal, false)
		},
	}
}

func newSearchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>...",
		Short: "Search names, descriptions, and examples",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := e.renderer()
			result, err := e.container.Resolver.Resolve(args, services.ModeSearch)
			if err != nil {
				return e.report(r, err)
			}
			limit := e.container.Config.Preferences.ResultLimit
			if limit > 0 && len(result.Hits) > limit {
				result.Hits = result.Hits[:limit]
			}
			fmt.Println(r.Render(result, domain.ModeNormal))
			return nil
		},
	}
}

func newHistoryCommand(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := e.renderer()
			if limit <= 0 {
				limit = e.container.Config.Preferences.ResultLimit
			}
			records, err := e.container.Tracker.Recent(limit)
			if err != nil {
				return err
			}
			fmt.Println(r.RecentLookups(records))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries to show (default from config)")

	var top int
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show most-used lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := e.renderer()
			if top <= 0 {
				top = e.container.Config.Preferences.ResultLimit
			}
			stats, err := e.container.Tracker.Stats(top)
			if err != nil {
				return err
			}
			fmt.Println(r.UsageStats(stats))
			return nil
		},
	}
	stats.Flags().IntVar(&top, "top", 0, "Number of entries to show (default from config)")
	cmd.AddCommand(stats)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all usage records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.container.UsageStore.Clear(); err != nil {
				return err
			}
			fmt.Println("Usage history cleared.")
			return nil
		},
	})

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete usage records older than N days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = e.container.Config.Usage.RetentionDays
			}
			if days <= 0 {
				return errors.New("no retention period configured; pass --days")
			}
			if err := e.container.UsageStore.PruneOlderThan(days); err != nil {
				return err
			}
			fmt.Printf("Pruned usage records older than %d days.\n", days)
			return nil
		},
	}
	prune.Flags().IntVar(&days, "days", 0, "Age threshold in days (default from config retention)")
	cmd.AddCommand(prune)

	return cmd
}

func newContextCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Suggest commands based on the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := e.renderer()
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			detector := &ContextDetector{Catalog: e.container.Catalog}
			fmt.Println(r.RenderDetections(wd, detector.Detect(wd)))
			return nil
		},
	}
}

func newDoctorCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, catalog, and usage store health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := e.renderer()
			report, err := e.container.Doctor.Run(cmd.Context(), e.container.Index)
			fmt.Println(r.HealthReport(report))
			if err != nil {
				return ErrReported
			}
			if !report.Healthy() {
				return ErrReported
			}
			return nil
		},
	}
}
