package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsScripts(t *testing.T) {
	doc := `
	<html>
	<head>
		<title>Linear Constraints</title>
		<script>var text = "hidden script words";</script>
		<style>/* hidden style words */</style>
	</head>
	<body>
		<p>Natural numbers and linear constraints</p>
		<noscript>hidden noscript words</noscript>
	</body>
	</html>
	`

	text, err := VisibleText(doc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(text, "hidden") {
		t.Errorf("Expected script/style/noscript content to be skipped, got %q", text)
	}
	if !strings.Contains(text, "Natural numbers and linear constraints") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
	if !strings.Contains(text, "Linear Constraints") {
		t.Errorf("Expected title text, got %q", text)
	}
}

func TestVisibleText_BlocksEndSentences(t *testing.T) {
	text, err := VisibleText(`<ul><li>first item</li><li>second item</li></ul>`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(text, "first item second item") {
		t.Errorf("Expected list items to be separated by a sentence break, got %q", text)
	}
	if !strings.Contains(text, "first item .") {
		t.Errorf("Expected sentence break after first item, got %q", text)
	}
}

func TestVisibleText_InlineStaysTogether(t *testing.T) {
	text, err := VisibleText(`<p>quick <b>brown</b> fox</p>`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(text, "quick brown fox") {
		t.Errorf("Expected inline elements to stay in one sentence, got %q", text)
	}
}

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		file        string
		body        string
		want        bool
	}{
		{"content type html", "text/html; charset=utf-8", "", "plain", true},
		{"content type plain", "text/plain", "page.html", "<html>", false},
		{"html extension", "", "page.HTM", "plain", true},
		{"text extension", "", "notes.txt", "<html>", false},
		{"sniff doctype", "", "input", "  <!DOCTYPE html><html></html>", true},
		{"sniff body", "", "-", "<div><body>x</body></div>", true},
		{"plain text", "", "-", "just some words", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTML(tt.contentType, tt.file, tt.body); got != tt.want {
				t.Errorf("IsHTML() = %v, want %v", got, tt.want)
			}
		})
	}
}
