package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/keyphrase/internal/model"
)

const reportFooter = "_Generated by keyphrase. Similarity is query-relative; RAKE score is document-relative._"

// Renderer formats reports and extractions.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes v as indented JSON.
func (r *Renderer) RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFile writes the report as JSON to path.
func (r *Renderer) WriteJSONFile(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.RenderJSON(w, report)
	})
}

// RenderMarkdown writes the report as a Markdown table.
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Keyphrases for %q\n\n", report.Query)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Candidates considered: %d\n", report.Candidates)
	fmt.Fprintf(&b, "- Sources: %d\n", len(report.Sources))
	for _, s := range report.Sources {
		fmt.Fprintf(&b, "  - `%s`\n", s)
	}
	b.WriteString("\n")

	if len(report.Phrases) == 0 {
		b.WriteString("No candidate phrases.\n")
	} else {
		b.WriteString("| # | Phrase | Similarity | RAKE score |\n")
		b.WriteString("|---|--------|-----------:|-----------:|\n")
		for _, p := range report.Phrases {
			fmt.Fprintf(&b, "| %d | %s | %.4f | %.4f |\n",
				p.Rank, escapeMarkdownCell(p.Phrase), p.Similarity, p.Score)
		}
	}

	if len(report.Failures) > 0 {
		b.WriteString("\n## Failed sources\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- `%s`: %s\n", f.Source, f.Error)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n")
		b.WriteString(reportFooter)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteMarkdownFile writes the Markdown report to path.
func (r *Renderer) WriteMarkdownFile(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.RenderMarkdown(w, report)
	})
}

// RenderSummary prints the ranked phrases as an aligned table.
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tPHRASE\tSIMILARITY\tRAKE\n")
	for _, p := range report.Phrases {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\n", p.Rank, p.Phrase, p.Similarity, p.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range report.Failures {
		fmt.Fprintf(w, "failed: %s: %s\n", f.Source, f.Error)
	}
	return nil
}

// RenderExtraction prints candidates and their RAKE scores as a table.
func (r *Renderer) RenderExtraction(w io.Writer, ex *model.Extraction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "SCORE\tPHRASE\n")
	for _, p := range ex.Phrases {
		fmt.Fprintf(tw, "%.4f\t%s\n", p.Score, p.Phrase)
	}
	return tw.Flush()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
