// Package pipeline ties document loading, RAKE extraction and query ranking
// together for the command line.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/keyphrase/internal/cache"
	"github.com/ppiankov/keyphrase/internal/model"
	"github.com/ppiankov/keyphrase/internal/rake"
	"github.com/ppiankov/keyphrase/internal/rank"
	"github.com/ppiankov/keyphrase/internal/stopwords"
	"github.com/ppiankov/keyphrase/internal/worker"
)

// ErrAllSourcesFailed is returned by RankCorpus when no source could be read.
var ErrAllSourcesFailed = errors.New("all sources failed")

// Pipeline extracts and ranks keyphrases from document sources.
type Pipeline struct {
	loader   *Loader
	stops    rake.Stopwords
	options  rake.Options
	ranker   *rank.Ranker
	renderer *Renderer
	config   *model.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline validates cfg, resolves the stopword list and wires the
// fetcher, cache and loader.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	options := rake.Options{
		NGram:       cfg.Extraction.NGram,
		TermLenLow:  cfg.Extraction.TermLenLow,
		TermLenHigh: cfg.Extraction.TermLenHigh,
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	ranker := &rank.Ranker{
		Scale:     cfg.Ranking.Scale,
		PowerBase: cfg.Ranking.PowerBase,
		Epsilon:   cfg.Ranking.Epsilon,
	}
	if err := ranker.Validate(); err != nil {
		return nil, err
	}

	stops, err := stopwords.Resolve(cfg.Extraction.Stopwords)
	if err != nil {
		return nil, fmt.Errorf("load stopwords: %w", err)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := NewFetcher(cfg.HTTP, limiter, store, cfg.Cache.TTL, logger)

	return &Pipeline{
		loader:   NewLoader(fetcher, os.Stdin, cfg.HTTP.MaxBodyBytes, logger),
		stops:    stops,
		options:  options,
		ranker:   ranker,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// SetStdin replaces the reader used for the "-" source.
func (p *Pipeline) SetStdin(r io.Reader) {
	p.loader.stdin = r
}

// Renderer returns the report renderer.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Extract loads source and returns its candidate map. With top_third
// enabled only the strongest third is kept.
func (p *Pipeline) Extract(ctx context.Context, source string) (rake.Candidates, error) {
	doc, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	candidates, err := rake.Extract(doc.Text, p.stops, p.options)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", source, err)
	}
	if p.config.Extraction.TopThird {
		candidates = candidates.TopThird()
	}

	p.logger.Debug("extracted candidates",
		zap.String("source", source),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// Extraction returns the candidates of source sorted by RAKE score.
func (p *Pipeline) Extraction(ctx context.Context, source string) (*model.Extraction, error) {
	candidates, err := p.Extract(ctx, source)
	if err != nil {
		return nil, err
	}

	sorted := candidates.Sorted()
	phrases := make([]model.ScoredPhrase, len(sorted))
	for i, sp := range sorted {
		phrases[i] = model.ScoredPhrase{Phrase: sp.Phrase, Score: sp.Score}
	}
	return &model.Extraction{Source: source, Phrases: phrases}, nil
}

// Rank extracts source and ranks its candidates against query.
// A zero topN uses the configured default.
func (p *Pipeline) Rank(ctx context.Context, source, query string, topN int) (*model.Report, error) {
	candidates, err := p.Extract(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.RankCandidates(candidates, query, topN, []string{source})
}

// RankCorpus extracts every source concurrently, merges the candidate maps in
// input order and ranks the result. Failed sources are listed in the report;
// only when every source fails is an error returned.
func (p *Pipeline) RankCorpus(ctx context.Context, sources []string, query string, topN int) (*model.Report, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources given", ErrAllSourcesFailed)
	}

	results := p.batchProcessor().ProcessSources(ctx, sources)
	return p.rankResults(results, query, topN)
}

// RankFile is RankCorpus over the sources listed in a file, one per line.
func (p *Pipeline) RankFile(ctx context.Context, path, query string, topN int) (*model.Report, error) {
	results, err := p.batchProcessor().ProcessFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no sources in %s", ErrAllSourcesFailed, path)
	}

	p.logger.Debug("loaded sources", zap.String("path", path), zap.Int("sources", len(results)))
	return p.rankResults(results, query, topN)
}

func (p *Pipeline) batchProcessor() *worker.BatchProcessor {
	return worker.NewBatchProcessor(p, p.config.Concurrency.Workers)
}

func (p *Pipeline) rankResults(results []*worker.ExtractResult, query string, topN int) (*model.Report, error) {
	var (
		maps     []rake.Candidates
		used     []string
		failures []model.SourceFailure
	)
	for _, res := range results {
		if res.Error != nil {
			p.logger.Warn("source failed", zap.String("source", res.Source), zap.Error(res.Error))
			failures = append(failures, model.SourceFailure{Source: res.Source, Error: res.Error.Error()})
			continue
		}
		maps = append(maps, res.Candidates)
		used = append(used, res.Source)
	}

	if len(maps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAllSourcesFailed, failures[0].Error)
	}

	report, err := p.RankCandidates(rake.Merge(maps...), query, topN, used)
	if err != nil {
		return nil, err
	}
	report.Failures = failures
	return report, nil
}

// RankCandidates ranks an already extracted candidate map. A zero topN
// uses the configured default; a negative one is rejected.
func (p *Pipeline) RankCandidates(candidates rake.Candidates, query string, topN int, sources []string) (*model.Report, error) {
	if topN == 0 {
		topN = p.config.Ranking.TopN
	}

	entries, err := p.ranker.Rank(candidates, query, topN)
	if err != nil {
		return nil, err
	}

	phrases := make([]model.RankedPhrase, len(entries))
	for i, e := range entries {
		phrases[i] = model.RankedPhrase{
			Rank:       i + 1,
			Phrase:     e.Phrase,
			Similarity: e.Similarity,
			Score:      e.Score,
		}
	}

	return &model.Report{
		Query:       query,
		Sources:     sources,
		GeneratedAt: p.now().UTC(),
		TopN:        topN,
		Candidates:  len(candidates),
		Phrases:     phrases,
	}, nil
}

// RenderReport writes the report to the requested files and prints the
// summary table to w.
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.WriteJSONFile(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote JSON report", zap.String("path", jsonPath))
	}

	if mdPath != "" {
		if err := p.renderer.WriteMarkdownFile(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote Markdown report", zap.String("path", mdPath))
	}

	return p.renderer.RenderSummary(w, report)
}
