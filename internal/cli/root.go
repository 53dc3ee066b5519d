// Package cli implements the tasknote command line.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Opener builds the application for one command invocation
type Opener func(ctx context.Context, opts app.Options) (*app.App, error)

// TUIRunner runs the interactive interface until the user quits
type TUIRunner func(ctx context.Context, a *app.App) error

// DefaultOpener loads the user's config file and opens the application
func DefaultOpener(ctx context.Context, opts app.Options) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, opts)
}

// commandOptions is what every non-interactive command opens with: no
// lock so it can run next to the TUI, and no reminders of its own
var commandOptions = app.Options{SkipLock: true, DisableReminders: true}

// env carries the dependencies shared by all commands
type env struct {
	open Opener
	now  func() time.Time
}

// withApp opens the application around fn
func (e *env) withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := e.open(cmd.Context(), commandOptions)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// NewRootCommand builds the command tree. Running the root command
// without a subcommand starts the TUI.
func NewRootCommand(open Opener, tui TUIRunner) *cobra.Command {
	return newRootCommand(open, tui, time.Now)
}

func newRootCommand(open Opener, tui TUIRunner, now func() time.Time) *cobra.Command {
	e := &env{open: open, now: now}

	root := &cobra.Command{
		Use:   "tasknote",
		Short: "Tasks with checklists, and notes",
		Long: `tasknote keeps tasks with deadlines and checklists, plus free-form notes,
in a local database. Run without arguments for the interactive interface.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context(), app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()
			return tui(cmd.Context(), a)
		},
	}

	root.AddCommand(
		e.addCmd(),
		e.listCmd(),
		e.showCmd(),
		e.editCmd(),
		e.doneCmd(true),
		e.doneCmd(false),
		e.checkCmd(),
		e.rmCmd(),
		e.noteCmd(),
		e.themeCmd(),
		versionCmd(),
	)

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasknote %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// Execute runs the root command with the default opener
func Execute(ctx context.Context, tui TUIRunner) error {
	return NewRootCommand(DefaultOpener, tui).ExecuteContext(ctx)
}

// parseTimestamp reads a task or note key from the command line
func parseTimestamp(s string) (int64, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return ts, nil
}
