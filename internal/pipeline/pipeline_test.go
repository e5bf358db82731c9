package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/keyphrase/internal/model"
	"github.com/ppiankov/keyphrase/internal/rake"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testPipeline(t *testing.T, stops string) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := model.DefaultConfig()
	cfg.Extraction.Stopwords = writeFixture(t, dir, "stops.txt", stops)
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.RateLimiting.RequestsPerSecond = 0

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p, dir
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Extraction.NGram = 0
	if _, err := NewPipeline(cfg, nil); !errors.Is(err, rake.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for ngram 0, got %v", err)
	}

	cfg = model.DefaultConfig()
	cfg.Ranking.Scale = 0
	if _, err := NewPipeline(cfg, nil); !errors.Is(err, rake.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for scale 0, got %v", err)
	}

	cfg = model.DefaultConfig()
	cfg.Extraction.Stopwords = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := NewPipeline(cfg, nil); err == nil {
		t.Error("expected error for missing stopword file")
	}
}

func TestPipeline_ExtractFile(t *testing.T) {
	p, dir := testPipeline(t, "the\n")
	path := writeFixture(t, dir, "doc.txt", "The quick brown fox jumps.")

	candidates, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if score := candidates["quick brown fox jumps"]; math.Abs(score-16) > 1e-9 || len(candidates) != 1 {
		t.Errorf("unexpected candidates: %v", candidates)
	}
}

func TestPipeline_ExtractStdin(t *testing.T) {
	p, _ := testPipeline(t, "the\n")
	p.SetStdin(strings.NewReader("alpha beta gamma. the delta epsilon"))

	ex, err := p.Extraction(context.Background(), StdinSource)
	if err != nil {
		t.Fatalf("Extraction failed: %v", err)
	}
	if len(ex.Phrases) != 2 || ex.Phrases[0].Phrase != "alpha beta gamma" || ex.Phrases[0].Score != 9 {
		t.Errorf("unexpected extraction: %+v", ex.Phrases)
	}
}

func TestPipeline_ExtractHTMLFile(t *testing.T) {
	p, dir := testPipeline(t, "the\n")
	path := writeFixture(t, dir, "page.html",
		`<html><head><script>var hidden = "script text";</script></head>`+
			`<body><p>linear constraints</p><p>natural numbers</p></body></html>`)

	candidates, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, ok := candidates["linear constraints"]; !ok {
		t.Errorf("expected paragraph phrase, got %v", candidates.Phrases())
	}
	if _, ok := candidates["linear constraints natural numbers"]; ok {
		t.Error("block elements must separate phrases")
	}
	for phrase := range candidates {
		if strings.Contains(phrase, "hidden") {
			t.Errorf("script text leaked into %q", phrase)
		}
	}
}

func TestPipeline_ExtractURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<p>The quick brown fox jumps.</p>")
	}))
	defer server.Close()

	p, _ := testPipeline(t, "the\n")
	candidates, err := p.Extract(context.Background(), server.URL+"/doc")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, ok := candidates["quick brown fox jumps"]; !ok {
		t.Errorf("unexpected candidates: %v", candidates)
	}
}

func TestPipeline_ExtractErrors(t *testing.T) {
	p, dir := testPipeline(t, "the\n")

	if _, err := p.Extract(context.Background(), ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("expected ErrEmptySource, got %v", err)
	}
	if _, err := p.Extract(context.Background(), filepath.Join(dir, "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPipeline_TopThird(t *testing.T) {
	p, dir := testPipeline(t, "and\n")
	p.config.Extraction.TopThird = true
	path := writeFixture(t, dir, "doc.txt", "aaa bbb ccc. ddd eee. fff. ggg hhh iii jjj")

	candidates, err := p.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("expected one third of four candidates, got %v", candidates)
	}
	if _, ok := candidates["ggg hhh iii jjj"]; !ok {
		t.Errorf("expected strongest candidate to survive, got %v", candidates)
	}
}

func TestPipeline_Rank(t *testing.T) {
	p, dir := testPipeline(t, "of\na\nand\nare\nfor\ngiven\nconsidered\n")
	path := writeFixture(t, dir, "doc.txt",
		"Upper bounds for components of a minimal set of solutions and algorithms of "+
			"construction of minimal generating sets of solutions are given.")

	report, err := p.Rank(context.Background(), path, "minimal set", 3)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if report.TopN != 3 || len(report.Phrases) != 3 {
		t.Fatalf("expected 3 phrases, got %+v", report.Phrases)
	}
	if report.Phrases[0].Phrase != "minimal set" || report.Phrases[0].Rank != 1 {
		t.Errorf("expected exact match first, got %+v", report.Phrases[0])
	}
	if report.Query != "minimal set" || len(report.Sources) != 1 || report.Sources[0] != path {
		t.Errorf("unexpected report header: %+v", report)
	}
	if report.Candidates < 3 {
		t.Errorf("expected candidate count, got %d", report.Candidates)
	}
}

func TestPipeline_RankDefaultTopN(t *testing.T) {
	p, _ := testPipeline(t, "")
	report, err := p.RankCandidates(rake.Candidates{"a b": 1}, "a", 0, nil)
	if err != nil {
		t.Fatalf("RankCandidates failed: %v", err)
	}
	if report.TopN != p.config.Ranking.TopN {
		t.Errorf("expected configured top N %d, got %d", p.config.Ranking.TopN, report.TopN)
	}
}

func TestPipeline_RankNegativeTopN(t *testing.T) {
	p, _ := testPipeline(t, "")
	for _, n := range []int{-1, -50} {
		if _, err := p.RankCandidates(rake.Candidates{"a b": 1}, "a", n, nil); !errors.Is(err, rake.ErrInvalidConfig) {
			t.Errorf("topN %d: expected ErrInvalidConfig, got %v", n, err)
		}
	}
}

func TestPipeline_RankCorpus(t *testing.T) {
	p, dir := testPipeline(t, "the\n")
	first := writeFixture(t, dir, "a.txt", "The quick brown fox jumps.")
	second := writeFixture(t, dir, "b.txt", "lazy dogs sleep. the quick brown fox jumps")
	missing := filepath.Join(dir, "missing.txt")

	report, err := p.RankCorpus(context.Background(), []string{first, missing, second}, "brown fox", 10)
	if err != nil {
		t.Fatalf("RankCorpus failed: %v", err)
	}

	if len(report.Failures) != 1 || report.Failures[0].Source != missing {
		t.Errorf("expected one failure for the missing file, got %+v", report.Failures)
	}
	if len(report.Sources) != 2 || report.Sources[0] != first || report.Sources[1] != second {
		t.Errorf("expected successful sources in input order, got %v", report.Sources)
	}
	if report.Candidates != 2 {
		t.Errorf("expected merged corpus of 2 phrases, got %d", report.Candidates)
	}
	if report.Phrases[0].Phrase != "quick brown fox jumps" {
		t.Errorf("expected fox phrase first, got %+v", report.Phrases)
	}
}

func TestPipeline_RankCorpus_AllFail(t *testing.T) {
	p, dir := testPipeline(t, "the\n")

	_, err := p.RankCorpus(context.Background(), []string{filepath.Join(dir, "x"), filepath.Join(dir, "y")}, "q", 5)
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Errorf("expected ErrAllSourcesFailed, got %v", err)
	}

	if _, err := p.RankCorpus(context.Background(), nil, "q", 5); !errors.Is(err, ErrAllSourcesFailed) {
		t.Errorf("expected ErrAllSourcesFailed for no sources, got %v", err)
	}
}

func TestPipeline_RankFile(t *testing.T) {
	p, dir := testPipeline(t, "the\n")
	first := writeFixture(t, dir, "a.txt", "The quick brown fox jumps.")
	second := writeFixture(t, dir, "b.txt", "lazy dogs sleep")
	list := writeFixture(t, dir, "sources.txt", "# corpus\n"+first+"\n\n"+second+"\n"+first+"\n")

	report, err := p.RankFile(context.Background(), list, "brown fox", 5)
	if err != nil {
		t.Fatalf("RankFile failed: %v", err)
	}
	if len(report.Sources) != 2 || report.Sources[0] != first || report.Sources[1] != second {
		t.Errorf("expected deduplicated sources in file order, got %v", report.Sources)
	}
	if report.Phrases[0].Phrase != "quick brown fox jumps" {
		t.Errorf("expected fox phrase first, got %+v", report.Phrases)
	}

	if _, err := p.RankFile(context.Background(), filepath.Join(dir, "nope.txt"), "q", 5); err == nil {
		t.Error("expected error for a missing source list")
	}

	empty := writeFixture(t, dir, "empty.txt", "# nothing here\n")
	if _, err := p.RankFile(context.Background(), empty, "q", 5); !errors.Is(err, ErrAllSourcesFailed) {
		t.Errorf("expected ErrAllSourcesFailed for an empty list, got %v", err)
	}
}

func TestPipeline_RenderReport(t *testing.T) {
	p, dir := testPipeline(t, "the\n")
	report := &model.Report{
		Query:       "brown fox",
		Sources:     []string{"a.txt"},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		TopN:        2,
		Candidates:  2,
		Phrases: []model.RankedPhrase{
			{Rank: 1, Phrase: "quick brown fox", Similarity: 18.5, Score: 9},
			{Rank: 2, Phrase: "pipe | phrase", Similarity: 1.25, Score: 4},
		},
		Failures: []model.SourceFailure{{Source: "b.txt", Error: "open source: missing"}},
	}

	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	var out bytes.Buffer
	if err := p.RenderReport(&out, report, jsonPath, mdPath); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	if !strings.Contains(out.String(), "quick brown fox") || !strings.Contains(out.String(), "failed: b.txt") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if decoded.Query != "brown fox" || len(decoded.Phrases) != 2 || decoded.Phrases[0].Similarity != 18.5 {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Keyphrases for \"brown fox\"", `pipe \| phrase`, "## Failed sources", reportFooter} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderer_Extraction(t *testing.T) {
	var out bytes.Buffer
	ex := &model.Extraction{Source: "-", Phrases: []model.ScoredPhrase{{Phrase: "alpha beta", Score: 4}}}
	if err := NewRenderer(false).RenderExtraction(&out, ex); err != nil {
		t.Fatalf("RenderExtraction failed: %v", err)
	}
	if !strings.Contains(out.String(), "4.0000  alpha beta") {
		t.Errorf("unexpected extraction table:\n%s", out.String())
	}
}
