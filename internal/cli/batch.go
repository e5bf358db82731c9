package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/keyphrase/internal/model"
)

func newBatchCmd(opts *globalOptions) *cobra.Command {
	var (
		ef           extractionFlags
		query        string
		topN         int
		concurrency  int
		outJSON      string
		outMD        string
		batchTimeout = 10 * time.Minute
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Rank keyphrases across many documents listed in a file",
		Long: `Batch reads one source per line (blank lines and # comments are
skipped, duplicates dropped), extracts every source in parallel, merges the
candidates into one corpus and ranks it against the query.

Sources that fail are reported and skipped; the command fails only when no
source could be read. Remote sources are rate limited per host.

Example:
  keyphrase batch sources.txt --query "minimal set"
  keyphrase batch sources.txt --query "caching" --concurrency 8 --md corpus.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("query") {
				return errQueryRequired
			}

			p, cfg, logger, err := opts.newPipeline(cmd, &ef, func(cfg *model.Config) {
				if cmd.Flags().Changed("concurrency") {
					cfg.Concurrency.Workers = concurrency
				}
			})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
			defer cancel()

			if cfg.Output.Verbose {
				fmt.Fprintf(opts.stderr, "Reading sources from %s\n", args[0])
				fmt.Fprintf(opts.stderr, "Workers: %d\n", cfg.Concurrency.Workers)
			}

			report, err := p.RankFile(ctx, args[0], query, topN)
			if err != nil {
				return err
			}

			if cfg.Output.Verbose {
				fmt.Fprintf(opts.stderr, "Ranked %d candidates from %d sources (%d failed)\n",
					report.Candidates, len(report.Sources), len(report.Failures))
			}
			return p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD)
		},
	}

	ef.register(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "query to rank phrases against")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of phrases to return (default: ranking.top_n)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	cmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path")
	cmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path")
	cmd.Flags().DurationVar(&batchTimeout, "timeout", batchTimeout, "total timeout for the batch")
	return cmd
}
