package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/hnpwa-cli/internal/app"
	"github.com/glabrego/hnpwa-cli/internal/render/article"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		text  bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "render [fragment...]",
		Short: "Navigate fragments in order and print each screen",
		Long: `Render navigates each fragment in order, exactly as the interactive
browser would, and prints the markup of the mount point after each one.
Read history is shared with the browser when HN_DB_PATH points at a file.

Examples:
  hn render                       # The feed at the current page
  hn render '#/page/2' '#/show/1' # Page 2, then a story with back link to page 2
  hn render --text '#/show/1'     # Terminal text instead of markup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 1 {
				return fmt.Errorf("--width must be positive, got %d", width)
			}
			cfg, err := loadConfig(root.verbose)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				args = []string{""}
			}
			out := cmd.OutOrStdout()
			for _, fragment := range args {
				screen, err := a.Show(ctx, fragment)
				if err != nil {
					return err
				}
				if !screen.Mounted {
					return fmt.Errorf("mount point %q not found", cfg.Mount)
				}
				markup := screen.Markup
				if text {
					markup = strings.Join(article.LinesWithOptions(markup, width, article.Options{Plain: true}), "\n")
				}
				fmt.Fprintln(out, markup)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "print terminal text instead of markup")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for --text")
	return cmd
}
