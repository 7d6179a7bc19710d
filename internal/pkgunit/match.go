package pkgunit

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Confidence grades a name match.
type Confidence string

const (
	ConfidenceExact Confidence = "exact"
	ConfidenceFuzzy Confidence = "fuzzy"
	ConfidenceNone  Confidence = "none"
)

// Match is the outcome of reconciling an external item name against the
// canonical candidates.
type Match struct {
	Name       string     `json:"name,omitempty"`
	Confidence Confidence `json:"confidence"`
	Score      float64    `json:"score"`
}

var (
	parenRe = regexp.MustCompile(`\([^)]*\)`)
	punctRe = regexp.MustCompile(`[^A-Z0-9 ]+`)
)

// normalizeMatchName uppercases, strips parenthetical suffixes and
// punctuation, and collapses whitespace.
func normalizeMatchName(s string) string {
	s = strings.ToUpper(s)
	s = parenRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

const fuzzyThreshold = 0.7

// MatchItemName finds the best candidate for an externally supplied item
// name. Exact normalized equality wins outright; then prefix containment
// in either direction; then Levenshtein similarity above the threshold,
// pre-filtered on matching first characters to avoid quadratic scans of
// obviously unrelated names.
func MatchItemName(input string, candidates []string) Match {
	norm := normalizeMatchName(input)
	if norm == "" {
		return Match{Confidence: ConfidenceNone}
	}

	for _, c := range candidates {
		if normalizeMatchName(c) == norm {
			return Match{Name: c, Confidence: ConfidenceExact, Score: 1.0}
		}
	}

	for _, c := range candidates {
		nc := normalizeMatchName(c)
		if nc == "" {
			continue
		}
		if strings.HasPrefix(norm, nc) || strings.HasPrefix(nc, norm) {
			return Match{Name: c, Confidence: ConfidenceFuzzy, Score: 0.85}
		}
	}

	best := Match{Confidence: ConfidenceNone}
	for _, c := range candidates {
		nc := normalizeMatchName(c)
		if nc == "" || nc[0] != norm[0] {
			continue
		}
		maxLen := len(norm)
		if len(nc) > maxLen {
			maxLen = len(nc)
		}
		sim := 1.0 - float64(levenshtein.ComputeDistance(norm, nc))/float64(maxLen)
		if sim > fuzzyThreshold && sim > best.Score {
			best = Match{Name: c, Confidence: ConfidenceFuzzy, Score: sim}
		}
	}
	return best
}
