// Package extract pulls structured fields out of normalized judgment text
// with pattern matching. The heuristics here (keyword-based judgment typing,
// decision-sentence detection) are deliberately lossy; unusual phrasing can
// misclassify and that is accepted.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"lexgate/internal/judgments"
	platformstrings "lexgate/pkg/platform/strings"
)

var (
	// KIO case signatures: "KIO 2584/13", "KIO/UZP 123/10", "KIO/KD 4/12".
	reCaseNumber = regexp.MustCompile(`(?i)\bKIO(?:/(?:UZP|KD|KU))?\s*\d{1,5}/\d{2,4}\b`)

	reISODate    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reDottedDate = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b`)
	reWordedDate = regexp.MustCompile(`\b(\d{1,2})\s+(stycznia|lutego|marca|kwietnia|maja|czerwca|lipca|sierpnia|września|października|listopada|grudnia)\s+(\d{4})\b`)

	reDecision = regexp.MustCompile(`(?i)(?:(?:uwzględnia|oddala|odrzuca)\s+odwołani[ae]|umarza\s+postępowani[ae])[^.]*\.`)
)

// monthNumbers maps Polish genitive month names to their calendar number.
var monthNumbers = map[string]int{
	"stycznia":     1,
	"lutego":       2,
	"marca":        3,
	"kwietnia":     4,
	"maja":         5,
	"czerwca":      6,
	"lipca":        7,
	"sierpnia":     8,
	"września":     9,
	"października": 10,
	"listopada":    11,
	"grudnia":      12,
}

// CaseNumbers returns all case signatures found in text, deduplicated in
// first-seen order with whitespace normalized.
func CaseNumbers(text string) []string {
	matches := reCaseNumber.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.Join(strings.Fields(m), " ")
	}
	return platformstrings.DedupeAndTrim(matches)
}

// JudgmentDate returns the first valid date found in text as an ISO calendar
// date, or empty when no pattern matched. Worded Polish dates
// ("12 maja 2021"), dotted dates and ISO dates are all recognized. Candidates
// that match a shape but are not real calendar dates ("2021-13-45") are
// skipped, so neither a partial parse nor an invalid date ever leaks out.
func JudgmentDate(text string) string {
	for _, m := range reISODate.FindAllStringSubmatch(text, -1) {
		if ValidISODate(m[0]) {
			return m[0]
		}
	}
	for _, m := range reWordedDate.FindAllStringSubmatch(text, -1) {
		month := monthNumbers[strings.ToLower(m[2])]
		candidate := fmt.Sprintf("%s-%02d-%s", m[3], month, pad2(m[1]))
		if ValidISODate(candidate) {
			return candidate
		}
	}
	for _, m := range reDottedDate.FindAllStringSubmatch(text, -1) {
		candidate := fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
		if ValidISODate(candidate) {
			return candidate
		}
	}
	return ""
}

// ValidISODate reports whether s is a real ISO calendar date (YYYY-MM-DD),
// not just date-shaped.
func ValidISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// DecisionSentence returns the operative decision sentence when one of the
// standard rulings ("uwzględnia odwołanie", "oddala odwołanie", ...) appears
// in the text, trimmed to a single sentence.
func DecisionSentence(text string) string {
	m := reDecision.FindString(text)
	return strings.TrimSpace(strings.Join(strings.Fields(m), " "))
}

// JudgmentType sniffs the document kind from its keywords: "wyrok" marks a
// sentence, "uchwała" a resolution, "postanowienie" a decision. DECISION is
// the fallback for anything unrecognized.
func JudgmentType(text string) judgments.JudgmentType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "wyrok"):
		return judgments.TypeSentence
	case strings.Contains(lower, "uchwała"):
		return judgments.TypeResolution
	case strings.Contains(lower, "postanowienie"):
		return judgments.TypeDecision
	default:
		return judgments.TypeDecision
	}
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
