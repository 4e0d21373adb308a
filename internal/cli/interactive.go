package cli

import (
	"context"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

// interactiveCommand creates the interactive (TUI) command.
func (c *CLI) interactiveCommand() *cobra.Command {
	var (
		logFile     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:     "interactive [query...]",
		Aliases: []string{"tui", "i"},
		Short:   "Compare packages interactively as you type",
		Long: `Open a terminal UI with a query input. The ranking updates as you type;
results for packages already fetched appear immediately.

The terminal is owned by the UI, so logs are discarded unless --log-file is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive(cmd.Context(), strings.Join(args, " "), logFile, concurrency)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (rotated)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "max parallel requests (default from config)")

	return cmd
}

func (c *CLI) runInteractive(ctx context.Context, input, logFile string, concurrency int) error {
	var w io.Writer = io.Discard
	if logFile != "" {
		rw, err := newRotatingWriter(logFile)
		if err != nil {
			return err
		}
		defer rw.Close()
		w = rw
	}
	logger := newLogger(w, c.Logger.GetLevel())
	installHooks(logger)

	if strings.TrimSpace(input) == "" {
		input = c.cfg.DefaultQuery
	}

	client, closeCache, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	sess := session.New(session.NewStore(), logger)
	defer sess.Close()

	m := newCompareModel(ctx, sess, client, c.concurrency(concurrency), input)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
