package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/integrations/bundlephobia"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/report"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

// compareOpts holds the flags of the compare command.
type compareOpts struct {
	format      string
	output      string
	refresh     bool
	concurrency int
}

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "compare [query...]",
		Short: "Rank package groups by bundle size",
		Long: `Fetch size histories for every package in the query and print the groups
that resolved, smallest gzip size first.

Arguments are joined with spaces and parsed as one query. Without arguments
the configured default query is used.`,
		Example: `  bundlephobia-compare compare react+react-dom preact inferno
  bundlephobia-compare compare "lodash, ramda" --format json
  bundlephobia-compare compare vue svelte --format svg -o sizes.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd.Context(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(report.FormatTable), "output format: table, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached responses")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 0, "max parallel requests (default from config)")

	return cmd
}

func (c *CLI) runCompare(ctx context.Context, input string, opts compareOpts) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if len(query.Parse(input)) == 0 {
		input = c.cfg.DefaultQuery
	}
	groups := query.Parse(input)
	warnInvalidNames(groups)

	client, closeCache, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	logger := loggerFromContext(ctx)
	installHooks(logger)

	sess := session.New(session.NewStore(), logger)
	defer sess.Close()

	tasks := sess.SetInput(ctx, input)
	prog := newProgress(logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Fetching %d packages...", len(tasks)))
	spinner.Start()
	err = sess.Run(ctx, countFetches(historyFetcher(client, opts.refresh), len(tasks), spinner), tasks, c.concurrency(opts.concurrency))
	spinner.Stop()
	if err != nil {
		return err
	}

	entries := sess.Ranking()
	prog.done(fmt.Sprintf("Ranked %d of %d groups", len(entries), len(groups)))

	if err := writeReport(ctx, opts.output, format, entries); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote %s", format)
		printFile(opts.output)
	}
	printNextStep("Share", "?"+query.QueryString(groups))
	return nil
}

// writeReport writes entries to path, or to stdout when path is empty.
func writeReport(ctx context.Context, path string, f report.Format, entries []rank.Entry) error {
	if path == "" {
		return report.Write(ctx, os.Stdout, f, entries)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(ctx, file, f, entries); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// historyFetcher adapts the bundlephobia client to [session.Fetcher].
// With refresh set every request bypasses the cache.
func historyFetcher(client *bundlephobia.Client, refresh bool) session.Fetcher {
	if !refresh {
		return client
	}
	return session.FetcherFunc(func(ctx context.Context, name string) (size.History, error) {
		return client.FetchHistoryRefresh(ctx, name, true)
	})
}

// countFetches reports fetch progress on spinner.
func countFetches(f session.Fetcher, total int, spinner *Spinner) session.Fetcher {
	var done atomic.Int32
	return session.FetcherFunc(func(ctx context.Context, name string) (size.History, error) {
		h, err := f.FetchHistory(ctx, name)
		spinner.SetMessage("Fetched %d/%d packages", done.Add(1), total)
		return h, err
	})
}

// concurrency resolves the request limit from a flag value and the config.
func (c *CLI) concurrency(flag int) int {
	if flag > 0 {
		return flag
	}
	return c.cfg.Concurrency
}

// warnInvalidNames prints a warning for each name that can never resolve.
// The query still runs; such groups are simply left out of the ranking.
func warnInvalidNames(groups []query.Group) {
	for _, name := range query.Names(groups) {
		if err := apperrors.ValidateNpmPackageName(name); err != nil {
			printWarning("%s", apperrors.UserMessage(err))
		}
	}
}
