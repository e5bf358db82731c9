package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ppiankov/keyphrase/internal/extract"
	"github.com/ppiankov/keyphrase/internal/worker"
)

// StdinSource names standard input as a document source.
const StdinSource = "-"

// ErrEmptySource is returned for a blank source name.
var ErrEmptySource = errors.New("empty source")

// Document is the plain text of one source.
type Document struct {
	Source string
	Text   string
	Remote bool
	Cached bool
}

// Loader resolves a source name to document text.
type Loader struct {
	fetcher  *Fetcher
	stdin    io.Reader
	maxBytes int64
	logger   *zap.Logger
}

// NewLoader creates a loader. stdin is read for the "-" source.
func NewLoader(fetcher *Fetcher, stdin io.Reader, maxBytes int64, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher:  fetcher,
		stdin:    stdin,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Load reads source and reduces HTML to its visible text.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	switch {
	case source == "":
		return nil, ErrEmptySource
	case worker.IsRemote(source):
		return l.loadRemote(ctx, source)
	case source == StdinSource:
		if l.stdin == nil {
			return nil, fmt.Errorf("read stdin: no input attached")
		}
		body, err := l.readAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return l.document(source, "", body, false, false)
	default:
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open source: %w", err)
		}
		defer func() { _ = file.Close() }()

		body, err := l.readAll(file)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		return l.document(source, "", body, false, false)
	}
}

func (l *Loader) loadRemote(ctx context.Context, rawURL string) (*Document, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("fetch %s: remote sources disabled", rawURL)
	}
	result, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return l.document(rawURL, result.ContentType, result.Body, true, result.Cached)
}

func (l *Loader) readAll(r io.Reader) (string, error) {
	if l.maxBytes > 0 {
		r = io.LimitReader(r, l.maxBytes)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (l *Loader) document(source, contentType, body string, remote, cached bool) (*Document, error) {
	text := body
	if extract.IsHTML(contentType, source, body) {
		visible, err := extract.VisibleText(body)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		text = visible
	}

	l.logger.Debug("loaded source",
		zap.String("source", source),
		zap.Bool("remote", remote),
		zap.Bool("cached", cached),
		zap.Int("chars", len(text)))

	return &Document{Source: source, Text: text, Remote: remote, Cached: cached}, nil
}
