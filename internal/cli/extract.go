package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/keyphrase/internal/model"
	"github.com/ppiankov/keyphrase/internal/pipeline"
)

// extractionFlags are shared by every command that runs RAKE.
type extractionFlags struct {
	ngram       int
	termLenLow  int
	termLenHigh int
	stopwords   string
	topThird    bool
}

func (f *extractionFlags) register(cmd *cobra.Command) {
	defaults := model.DefaultConfig().Extraction
	cmd.Flags().IntVar(&f.ngram, "ngram", defaults.NGram, "maximum words per phrase")
	cmd.Flags().IntVar(&f.termLenLow, "term-len-low", defaults.TermLenLow, "words shorter than this count as short")
	cmd.Flags().IntVar(&f.termLenHigh, "term-len-high", defaults.TermLenHigh, "maximum phrase length in characters")
	cmd.Flags().StringVar(&f.stopwords, "stopwords", "", "stopword file, one per line or YAML list (default: embedded list)")
	cmd.Flags().BoolVar(&f.topThird, "top-third", false, "keep only the strongest third of candidates")
}

// apply overrides cfg with the flags the user actually set.
func (f *extractionFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("ngram") {
		cfg.Extraction.NGram = f.ngram
	}
	if flags.Changed("term-len-low") {
		cfg.Extraction.TermLenLow = f.termLenLow
	}
	if flags.Changed("term-len-high") {
		cfg.Extraction.TermLenHigh = f.termLenHigh
	}
	if flags.Changed("stopwords") {
		cfg.Extraction.Stopwords = f.stopwords
	}
	if flags.Changed("top-third") {
		cfg.Extraction.TopThird = f.topThird
	}
}

// newPipeline builds the effective config, applies command flags and wires
// the pipeline to the command's stdin.
func (o *globalOptions) newPipeline(cmd *cobra.Command, ef *extractionFlags, overrides ...func(*model.Config)) (*pipeline.Pipeline, *model.Config, *zap.Logger, error) {
	cfg, logger, err := o.runtime()
	if err != nil {
		return nil, nil, nil, err
	}
	ef.apply(cmd, cfg)
	for _, override := range overrides {
		override(cfg)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	p.SetStdin(o.stdin)
	return p, cfg, logger, nil
}

func newExtractCmd(opts *globalOptions) *cobra.Command {
	var (
		ef      extractionFlags
		asJSON  bool
		timeout = model.DefaultConfig().HTTP.Timeout
	)

	cmd := &cobra.Command{
		Use:   "extract <source>",
		Short: "List candidate keyphrases with their RAKE scores",
		Long: `Extract splits a document into candidate phrases at stopwords and
punctuation and scores each phrase by the degree/frequency of its words.

A source is a file path, "-" for standard input, or an http(s) URL.

Example:
  keyphrase extract paper.txt
  keyphrase extract https://example.com/article --top-third
  cat notes.md | keyphrase extract - --stopwords stops.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, logger, err := opts.newPipeline(cmd, &ef)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ex, err := p.Extraction(ctx, args[0])
			if err != nil {
				return err
			}

			if cfg.Output.Verbose {
				fmt.Fprintf(opts.stderr, "Extracted %d candidates from %s\n", len(ex.Phrases), ex.Source)
			}

			if asJSON {
				return p.Renderer().RenderJSON(cmd.OutOrStdout(), ex)
			}
			return p.Renderer().RenderExtraction(cmd.OutOrStdout(), ex)
		},
	}

	ef.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print candidates as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "overall timeout")
	return cmd
}
