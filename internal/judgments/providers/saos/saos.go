// Package saos adapts the SAOS judgment API (structured JSON upstream) to
// the canonical provider interface. Every query pins the court-type filter
// to the National Appeal Chamber so ids from unrelated courts can never be
// served by accident.
package saos

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"lexgate/internal/judgments"
	"lexgate/internal/judgments/extract"
	"lexgate/internal/judgments/merge"
	"lexgate/internal/judgments/normalize"
	"lexgate/internal/judgments/paginate"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/judgments/transport"
)

const (
	// DefaultBaseURL is the public SAOS deployment.
	DefaultBaseURL = "https://www.saos.org.pl"

	// courtType pins every query to the National Appeal Chamber.
	courtType = "NATIONAL_APPEAL_CHAMBER"

	defaultPageSize = 10
	maxPageSize     = 100
	snippetLen      = 300
)

// Provider queries the SAOS API.
type Provider struct {
	baseURL string
	client  *transport.Client
}

// New creates a SAOS adapter. An empty baseURL selects the public API.
func New(baseURL string, client *transport.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{baseURL: baseURL, client: client}
}

func (p *Provider) ID() string { return providers.NameSAOS }

// Upstream response shapes. Only the fields the adapter reads are declared.
type searchResponse struct {
	Items []judgmentItem `json:"items"`
	Info  struct {
		TotalResults int `json:"totalResults"`
	} `json:"info"`
}

type judgmentItem struct {
	ID         int    `json:"id"`
	CourtType  string `json:"courtType"`
	CourtCases []struct {
		CaseNumber string `json:"caseNumber"`
	} `json:"courtCases"`
	JudgmentDate string `json:"judgmentDate"`
	JudgmentType string `json:"judgmentType"`
	Summary      string `json:"summary"`
	Decision     string `json:"decision"`
	TextContent  string `json:"textContent"`
	Judges       []struct {
		Name string `json:"name"`
	} `json:"judges"`
	Keywords   []string `json:"keywords"`
	LegalBases []string `json:"legalBases"`
	Division   struct {
		Court struct {
			Name string `json:"name"`
		} `json:"court"`
	} `json:"division"`
}

type detailResponse struct {
	Data judgmentItem `json:"data"`
}

// Search translates canonical filters into SAOS query parameters and maps
// the response page onto canonical records.
func (p *Provider) Search(ctx context.Context, params judgments.SearchParams) (*judgments.SearchResult, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	q := url.Values{}
	q.Set("courtType", courtType)
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("pageNumber", strconv.Itoa(page))
	if params.Query != "" {
		q.Set("all", params.Query)
	}
	if params.CaseNumber != "" {
		q.Set("caseNumber", params.CaseNumber)
	}
	if params.DateFrom != "" {
		q.Set("judgmentDateFrom", params.DateFrom)
	}
	if params.DateTo != "" {
		q.Set("judgmentDateTo", params.DateTo)
	}

	var resp searchResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/api/search/judgments?"+q.Encode(), &resp); err != nil {
		return nil, transport.WrapError(p.ID(), "search", err)
	}

	results := make([]judgments.Judgment, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, p.toRecord(item))
	}

	total := resp.Info.TotalResults
	out := &judgments.SearchResult{
		Results:    results,
		TotalCount: &total,
	}
	// Best-effort: the total is a live estimate, so the next-page hint may
	// drift between calls.
	if (page+1)*pageSize < total {
		next := page + 1
		out.NextPage = &next
	}
	return out, nil
}

// GetDetail fetches one judgment by numeric id and returns its merged
// metadata plus a window of normalized text.
func (p *Provider) GetDetail(ctx context.Context, params judgments.DetailParams) (*judgments.Detail, error) {
	numericID, err := strconv.Atoi(params.ID)
	if err != nil || numericID <= 0 {
		return nil, providers.NewError(providers.CategoryNotFound, p.ID(),
			fmt.Sprintf("id %q is not a SAOS judgment id", params.ID), providers.ErrJudgmentNotFound)
	}

	var resp detailResponse
	if err := p.client.GetJSON(ctx, fmt.Sprintf("%s/api/judgments/%d", p.baseURL, numericID), &resp); err != nil {
		return nil, transport.WrapError(p.ID(), "getDetail", err)
	}

	// Ids are not unique across court types upstream; treat a mismatch as
	// absence rather than serving a foreign court's judgment.
	if resp.Data.CourtType != "" && resp.Data.CourtType != courtType {
		return nil, providers.NewError(providers.CategoryNotFound, p.ID(),
			fmt.Sprintf("judgment %d belongs to court type %s", numericID, resp.Data.CourtType), providers.ErrJudgmentNotFound)
	}

	text := normalize.ExtractText(resp.Data.TextContent, normalize.Options{PreserveLists: true})

	structured := judgments.Metadata{
		CaseNumbers:  caseNumbers(resp.Data),
		JudgmentDate: isoDate(resp.Data.JudgmentDate),
		Type:         mapJudgmentType(resp.Data.JudgmentType),
		Decision:     resp.Data.Decision,
		LegalBases:   resp.Data.LegalBases,
		Judges:       judgeNames(resp.Data),
		Keywords:     resp.Data.Keywords,
		CourtName:    resp.Data.Division.Court.Name,
	}
	extracted := judgments.Metadata{
		CaseNumbers: extract.CaseNumbers(text),
		Decision:    extract.DecisionSentence(text),
	}
	// Structured fields win over text extraction for scalars; arrays union.
	meta := merge.Metadata(extracted, structured)

	window, cont := paginate.Paginate(text, params.MaxChars, params.Offset)
	return &judgments.Detail{
		Metadata:     meta,
		Content:      window,
		Continuation: cont,
		SourceLinks:  p.SourceLinks(params.ID),
	}, nil
}

// SourceLinks returns the API and web URLs for an id. Pure, no network.
func (p *Provider) SourceLinks(id string) judgments.SourceLinks {
	return judgments.SourceLinks{
		"saosApi": fmt.Sprintf("%s/api/judgments/%s", p.baseURL, id),
		"saosWeb": fmt.Sprintf("%s/judgments/%s", p.baseURL, id),
	}
}

// Health probes the search endpoint with a minimal query.
func (p *Provider) Health(ctx context.Context) judgments.Health {
	start := time.Now()
	var resp searchResponse
	err := p.client.GetJSON(ctx, p.baseURL+"/api/search/judgments?pageSize=1&courtType="+courtType, &resp)
	h := judgments.Health{
		Available: err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		h.Error = err.Error()
	}
	return h
}

func (p *Provider) toRecord(item judgmentItem) judgments.Judgment {
	record := judgments.Judgment{
		ID:           strconv.Itoa(item.ID),
		CaseNumbers:  caseNumbers(item),
		JudgmentDate: isoDate(item.JudgmentDate),
		Type:         mapJudgmentType(item.JudgmentType),
		Summary:      item.Summary,
		SourceURL:    fmt.Sprintf("%s/judgments/%d", p.baseURL, item.ID),
	}
	if item.TextContent != "" {
		snippet := normalize.ExtractText(item.TextContent, normalize.Options{})
		runes := []rune(snippet)
		if len(runes) > snippetLen {
			snippet = string(runes[:snippetLen])
		}
		record.Snippet = snippet
	}
	return record
}

func caseNumbers(item judgmentItem) []string {
	numbers := make([]string, 0, len(item.CourtCases))
	for _, cc := range item.CourtCases {
		if cc.CaseNumber != "" {
			numbers = append(numbers, cc.CaseNumber)
		}
	}
	return numbers
}

// isoDate keeps an upstream judgment date only when it is a real ISO
// calendar date; anything else becomes the explicit unknown value.
func isoDate(s string) string {
	if extract.ValidISODate(s) {
		return s
	}
	return ""
}

func judgeNames(item judgmentItem) []string {
	names := make([]string, 0, len(item.Judges))
	for _, j := range item.Judges {
		if j.Name != "" {
			names = append(names, j.Name)
		}
	}
	return names
}

// mapJudgmentType maps the SAOS enum onto the canonical one. The upstream
// REASONS type carries written grounds for a decision, so it maps to
// DECISION, which is also the fallback for unknown values.
func mapJudgmentType(upstream string) judgments.JudgmentType {
	switch upstream {
	case "SENTENCE":
		return judgments.TypeSentence
	case "DECISION":
		return judgments.TypeDecision
	case "RESOLUTION":
		return judgments.TypeResolution
	case "REASONS":
		return judgments.TypeDecision
	default:
		return judgments.TypeDecision
	}
}
