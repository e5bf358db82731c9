// Package stopwords supplies stopword sets from files or the embedded list.
package stopwords

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/keyphrase/internal/rake"
	"gopkg.in/yaml.v3"
)

//go:embed smart.txt
var smartList string

// Default returns the embedded English stopword list.
func Default() rake.Stopwords {
	// The embedded list is plain text and cannot fail to scan.
	stops, _ := Parse(strings.NewReader(smartList))
	return stops
}

// Resolve loads the list at path, or the default list when path is empty.
func Resolve(path string) (rake.Stopwords, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a stopword file. Files ending in .yaml or .yml hold a YAML list,
// either bare or under a "stopwords" key; anything else is one word per line.
func Load(path string) (rake.Stopwords, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read stopwords: %w", err)
		}
		return ParseYAML(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads one stopword per line. Blank lines and # comments are skipped.
func Parse(r io.Reader) (rake.Stopwords, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan stopwords: %w", err)
	}

	return rake.NewStopwords(words...), nil
}

// ParseYAML decodes a YAML stopword list.
func ParseYAML(data []byte) (rake.Stopwords, error) {
	var words []string
	if err := yaml.Unmarshal(data, &words); err != nil {
		var doc struct {
			Stopwords []string `yaml:"stopwords"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse stopwords yaml: %w", err)
		}
		words = doc.Stopwords
	}
	return rake.NewStopwords(words...), nil
}
