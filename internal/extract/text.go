// Package extract turns fetched documents into plain text for phrase extraction.
package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// sentenceBreak closes the text of a block element so phrases never span blocks.
const sentenceBreak = ". "

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"template": true,
	"svg":      true,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "br": true,
	"title": true, "section": true, "article": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "dt": true, "dd": true, "caption": true,
}

// VisibleText returns the human-visible text of an HTML document.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString(sentenceBreak)
		}
	}

	walk(doc)
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// IsHTML reports whether a document should be reduced with VisibleText.
// The content type wins when present, then the file extension, then a sniff
// of the leading bytes.
func IsHTML(contentType, name, body string) bool {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediaType == "text/html" || mediaType == "application/xhtml+xml"
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	case ".txt", ".md", ".text":
		return false
	}

	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}
