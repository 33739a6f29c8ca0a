package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/hnpwa-cli/internal/app"
	"github.com/glabrego/hnpwa-cli/internal/config"
	"github.com/glabrego/hnpwa-cli/internal/tui"
)

const startupTimeout = 15 * time.Second

type rootOptions struct {
	fragment string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "hn",
		Short: "Hacker News in the terminal",
		Long: `hn browses the Hacker News front page through the HNPWA API.

Screens are addressed by fragment:
  #/page/N    page N of the feed, ten stories per page
  #/show/ID   one story with its comment tree

Example usage:
  hn                           # Open the first page
  hn --fragment '#/show/123'   # Open a story directly
  hn render '#/page/2'         # Print the markup of page 2`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().StringVar(&opts.fragment, "fragment", "", "fragment of the first screen (default is the feed)")

	cmd.AddCommand(newRenderCmd(opts))
	return cmd
}

func loadConfig(verbose bool) (config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(opts.verbose)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg)

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	a, err := app.New(startCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	program := tea.NewProgram(tui.NewModel(a, opts.fragment), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
