// Package judgments defines the provider-agnostic model for court judgments
// and the search/detail shapes shared by all provider adapters.
package judgments

import "time"

// JudgmentType classifies a judgment document.
type JudgmentType string

const (
	TypeSentence   JudgmentType = "SENTENCE"
	TypeDecision   JudgmentType = "DECISION"
	TypeResolution JudgmentType = "RESOLUTION"
)

// Judgment is the canonical search-result record. The ID is opaque and scoped
// to the provider that produced it. JudgmentDate is either a valid ISO
// calendar date (YYYY-MM-DD) or empty when unknown, never a partial parse.
type Judgment struct {
	ID           string       `json:"id"`
	CaseNumbers  []string     `json:"caseNumbers"`
	JudgmentDate string       `json:"judgmentDate,omitempty"`
	Type         JudgmentType `json:"judgmentType"`
	Summary      string       `json:"summary,omitempty"`
	Snippet      string       `json:"snippet,omitempty"`
	SourceURL    string       `json:"sourceUrl,omitempty"`
}

// Metadata is the canonical detail record. Array fields are always present,
// defaulting to empty rather than nil so merged fragments never report an
// absent field.
type Metadata struct {
	CaseNumbers  []string     `json:"caseNumbers"`
	JudgmentDate string       `json:"judgmentDate,omitempty"`
	Type         JudgmentType `json:"judgmentType,omitempty"`
	Decision     string       `json:"decision,omitempty"`
	LegalBases   []string     `json:"legalBases"`
	Judges       []string     `json:"judges"`
	Keywords     []string     `json:"keywords"`
	CourtName    string       `json:"courtName,omitempty"`
}

// NewMetadata returns a metadata record with all array fields initialized.
func NewMetadata() Metadata {
	return Metadata{
		CaseNumbers: []string{},
		LegalBases:  []string{},
		Judges:      []string{},
		Keywords:    []string{},
	}
}

// Continuation describes where a truncated content read can resume.
// NextOffset is set iff Truncated is true and always equals the end offset of
// the window just returned.
type Continuation struct {
	Truncated   bool `json:"truncated"`
	NextOffset  *int `json:"nextOffset,omitempty"`
	TotalLength int  `json:"totalLength"`
}

// SourceLinks is a sparse bag of named URLs. A missing key means the link
// does not apply to the provider, not that it is unknown.
type SourceLinks map[string]string

// SearchParams are the canonical search filters accepted by every provider.
type SearchParams struct {
	Query      string
	CaseNumber string
	DateFrom   string // YYYY-MM-DD, inclusive
	DateTo     string // YYYY-MM-DD, inclusive
	Page       int    // zero-based
	PageSize   int
}

// SearchResult carries one page of canonical records. NextPage is nil when
// the upstream's total-count estimate says there is no further page; the
// estimate is best-effort and may drift between calls.
type SearchResult struct {
	Results    []Judgment `json:"results"`
	NextPage   *int       `json:"nextPage,omitempty"`
	TotalCount *int       `json:"totalCount,omitempty"`
}

// DetailParams identify one judgment and the content window to return.
type DetailParams struct {
	ID       string
	MaxChars int
	Offset   int
}

// Detail is a full judgment record with one window of its normalized text.
type Detail struct {
	Metadata     Metadata     `json:"metadata"`
	Content      string       `json:"content"`
	Continuation Continuation `json:"continuation"`
	SourceLinks  SourceLinks  `json:"sourceLinks"`
}

// Health reports a provider's availability at Timestamp.
type Health struct {
	Available bool      `json:"available"`
	LatencyMS int64     `json:"latencyMs,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
