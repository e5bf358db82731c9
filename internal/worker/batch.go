package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/keyphrase/internal/rake"
)

// Extractor produces RAKE candidates for one source.
type Extractor interface {
	Extract(ctx context.Context, source string) (rake.Candidates, error)
}

// ExtractJob extracts candidates from one source.
type ExtractJob struct {
	Index     int
	Source    string
	Extractor Extractor
}

// Execute runs the job.
func (j *ExtractJob) Execute(ctx context.Context) Result {
	result := &ExtractResult{Index: j.Index, Source: j.Source}

	candidates, err := j.Extractor.Extract(ctx, j.Source)
	if err != nil {
		result.Error = err
		return result
	}
	result.Candidates = candidates
	return result
}

// ExtractResult is the outcome of one ExtractJob.
type ExtractResult struct {
	Index      int
	Source     string
	Candidates rake.Candidates
	Error      error
}

// GetError returns the extraction error, if any.
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts candidates from many sources concurrently.
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a batch processor running concurrency
// extractions at a time. Throttling of remote sources is the extractor's job.
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessSources extracts every source and returns results in input order.
// Sources never reached because ctx was cancelled carry the context error.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ExtractResult {
	if len(sources) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, source := range sources {
			job := &ExtractJob{
				Index:     i,
				Source:    source,
				Extractor: b.extractor,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	ordered := make([]*ExtractResult, len(sources))
	for _, r := range pool.Collect() {
		res := r.(*ExtractResult)
		ordered[res.Index] = res
	}

	for i, res := range ordered {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			ordered[i] = &ExtractResult{Index: i, Source: sources[i], Error: err}
		}
	}
	return ordered
}

// ProcessFile reads sources from a file and processes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExtractResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one source per line, skipping blanks and
// '#' comments and dropping duplicates.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return sources, nil
}
