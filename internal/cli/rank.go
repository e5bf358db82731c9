package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/keyphrase/internal/model"
)

var errQueryRequired = errors.New("--query is required")

func newRankCmd(opts *globalOptions) *cobra.Command {
	var (
		ef      extractionFlags
		query   string
		topN    int
		outJSON string
		outMD   string
		timeout = model.DefaultConfig().HTTP.Timeout
	)

	cmd := &cobra.Command{
		Use:   "rank <source>...",
		Short: "Rank a document's keyphrases by similarity to a query",
		Long: `Rank extracts candidate phrases from one document and orders the
strongest N by similarity to the query. Phrases whose similarity differs by
no more than the configured epsilon are ordered by RAKE score.

With several sources the candidates are merged into one corpus first, as
the batch command does.

Example:
  keyphrase rank paper.txt --query "minimal set"
  keyphrase rank https://example.com/article --query "rate limiting" --top 5
  keyphrase rank paper.txt --query "linear constraints" --json report.json --md report.md
  keyphrase rank a.txt b.txt --query "minimal set"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("query") {
				return errQueryRequired
			}

			p, cfg, logger, err := opts.newPipeline(cmd, &ef)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if cfg.Output.Verbose {
				fmt.Fprintf(opts.stderr, "Ranking %s against %q\n", strings.Join(args, ", "), query)
			}

			var report *model.Report
			if len(args) == 1 {
				report, err = p.Rank(ctx, args[0], query, topN)
			} else {
				report, err = p.RankCorpus(ctx, args, query, topN)
			}
			if err != nil {
				return err
			}
			return p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD)
		},
	}

	ef.register(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "query to rank phrases against")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of phrases to return (default: ranking.top_n)")
	cmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	cmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "overall timeout")
	return cmd
}
