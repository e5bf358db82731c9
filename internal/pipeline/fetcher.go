package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/keyphrase/internal/cache"
	"github.com/ppiankov/keyphrase/internal/model"
	"github.com/ppiankov/keyphrase/internal/util"
	"github.com/ppiankov/keyphrase/internal/worker"
)

const (
	maxFetchAttempts = 3
	maxRedirects     = 3
	retryBaseDelay   = 500 * time.Millisecond
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// fetchSleepFunc is swapped out by tests to skip backoff.
var fetchSleepFunc = time.Sleep

// Fetcher retrieves remote documents.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	store      cache.Cache
	cacheTTL   time.Duration
	inflight   singleflight.Group
	logger     *zap.Logger
}

// FetchResult is a fetched document body and its metadata.
type FetchResult struct {
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
	FinalURL    string `json:"final_url"`
	Cached      bool   `json:"-"`
}

// NewFetcher creates a fetcher. limiter may be nil to fetch without a host
// rate, though robots.txt crawl delays still apply. store may be nil to
// disable caching; a zero cacheTTL uses the store's default.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter, store cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = worker.NewLimiter(0, 0)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		limiter:    limiter,
		store:      store,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client, logger)
	}
	return f
}

// Fetch performs a single GET of rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var reader io.Reader = resp.Body
	if f.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry checks the cache and robots.txt, then fetches rawURL,
// retrying transient failures with exponential backoff. Concurrent calls
// for the same document share one request.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.CacheKey(rawURL)
	if cached, ok := f.fromCache(key); ok {
		f.logger.Debug("cache hit", zap.String("url", rawURL))
		return cached, nil
	}

	v, err, shared := f.inflight.Do(key, func() (any, error) {
		return f.fetchUncached(ctx, rawURL, key)
	})
	if err != nil {
		return nil, err
	}

	result := *v.(*FetchResult)
	if shared {
		f.logger.Debug("joined in-flight fetch", zap.String("url", rawURL))
	}
	return &result, nil
}

func (f *Fetcher) fetchUncached(ctx context.Context, rawURL, key string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			f.logger.Debug("robots.txt denied fetch", zap.String("url", rawURL))
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, rawURL)
		}
		f.limiter.RespectCrawlDelay(rawURL, crawlDelay)
	}

	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			f.logger.Debug("fetched document",
				zap.String("url", result.FinalURL),
				zap.Int("bytes", len(result.Body)),
				zap.Int("attempt", attempt))
			f.toCache(key, result)
			if finalKey := cache.CacheKey(result.FinalURL); finalKey != key {
				f.toCache(finalKey, result)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil || attempt == maxFetchAttempts {
			break
		}

		delay := retryBaseDelay * time.Duration(1<<(attempt-1))
		f.logger.Debug("retrying fetch",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		fetchSleepFunc(delay)
	}

	return nil, lastErr
}

func (f *Fetcher) fromCache(key string) (*FetchResult, bool) {
	if f.store == nil {
		return nil, false
	}
	data, ok := f.store.Get(key)
	if !ok {
		return nil, false
	}
	var result FetchResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = f.store.Delete(key)
		return nil, false
	}
	result.Cached = true
	return &result, true
}

func (f *Fetcher) toCache(key string, result *FetchResult) {
	if f.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := f.store.Set(key, data, f.cacheTTL); err != nil {
		f.logger.Debug("cache write failed", zap.Error(err))
	}
}

// isRetryableFetchError reports whether err is worth another attempt:
// transport failures, 429 and 5xx responses.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "unexpected status: "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return false
		}
		code, convErr := strconv.Atoi(fields[0])
		if convErr != nil {
			return false
		}
		return code == http.StatusTooManyRequests || code >= 500
	}

	return strings.HasPrefix(msg, "fetch: ")
}
