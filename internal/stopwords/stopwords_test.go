package stopwords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	stops := Default()
	if len(stops) < 100 {
		t.Fatalf("expected a substantial default list, got %d words", len(stops))
	}
	for _, w := range []string{"the", "and", "of", "which"} {
		if !stops.Contains(w) {
			t.Errorf("expected default list to contain %q", w)
		}
	}
	for w := range stops {
		if strings.HasPrefix(w, "#") {
			t.Errorf("comment line leaked into stopwords: %q", w)
		}
	}
}

func TestParse(t *testing.T) {
	stops, err := Parse(strings.NewReader("# header\nThe\n\n  of  \nAND\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stops) != 3 {
		t.Fatalf("expected 3 stopwords, got %v", stops.Words())
	}
	for _, w := range []string{"the", "of", "and"} {
		if _, ok := stops[w]; !ok {
			t.Errorf("expected lowercase %q in set", w)
		}
	}
}

func TestLoad_PlainText(t *testing.T) {
	path := writeFile(t, "stop.txt", "a\nan\nthe\n")
	stops, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stops) != 3 {
		t.Errorf("expected 3 stopwords, got %d", len(stops))
	}
}

func TestLoad_YAML(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare list", "- Alpha\n- beta\n"},
		{"keyed list", "stopwords:\n  - alpha\n  - BETA\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops, err := Load(writeFile(t, "stop.yaml", tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(stops) != 2 || !stops.Contains("alpha") || !stops.Contains("beta") {
				t.Errorf("unexpected stopwords: %v", stops.Words())
			}
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeFile(t, "stop.yml", "stopwords: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load("no_such_stoplist.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	stops, err := Load(writeFile(t, "empty.txt", ""))
	if err != nil {
		t.Fatalf("empty file is valid, got %v", err)
	}
	if len(stops) != 0 {
		t.Errorf("expected empty set, got %v", stops.Words())
	}
}

func TestResolve(t *testing.T) {
	stops, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(stops) != len(Default()) {
		t.Errorf("empty path should resolve to the default list")
	}

	custom, err := Resolve(writeFile(t, "stop.txt", "only\n"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(custom) != 1 {
		t.Errorf("expected custom list of 1, got %d", len(custom))
	}
}
