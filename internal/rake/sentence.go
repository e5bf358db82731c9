package rake

import "strings"

// isSentenceDelimiter reports whether r ends a sentence-like segment.
func isSentenceDelimiter(r rune) bool {
	switch r {
	case '.', '!', '?', ',', ';', ':', '\t', '\\', '-', '"', '(', ')', '\'', '’', '–':
		return true
	}
	return false
}

// SplitSentences splits text on punctuation into sentence-like segments.
// Empty segments between adjacent delimiters are dropped.
func SplitSentences(text string) []string {
	return strings.FieldsFunc(text, isSentenceDelimiter)
}
