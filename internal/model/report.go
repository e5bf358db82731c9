package model

import "time"

// Report is the result of ranking one or more documents against a query.
type Report struct {
	Query       string          `json:"query"`
	Sources     []string        `json:"sources"`
	GeneratedAt time.Time       `json:"generated_at"`
	TopN        int             `json:"top_n"`
	Candidates  int             `json:"candidates"` // candidate phrases considered
	Phrases     []RankedPhrase  `json:"phrases"`
	Failures    []SourceFailure `json:"failures,omitempty"`
}

// RankedPhrase is one row of a report.
type RankedPhrase struct {
	Rank       int     `json:"rank"` // 1-based
	Phrase     string  `json:"phrase"`
	Similarity float64 `json:"similarity"`
	Score      float64 `json:"score"` // RAKE score
}

// Extraction lists the candidate phrases of a single source.
type Extraction struct {
	Source  string         `json:"source"`
	Phrases []ScoredPhrase `json:"phrases"`
}

// ScoredPhrase is a candidate with its RAKE score.
type ScoredPhrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// SourceFailure records a source that could not be read or extracted.
type SourceFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}
