// Package portal adapts the UZP judgment portal (HTML-rendered upstream) to
// the canonical provider interface. The portal has no machine-readable
// search, so Search returns an empty page by design; detail retrieval
// scrapes the rendered document and rebuilds metadata with pattern
// extraction.
package portal

import (
	"context"
	"net/url"
	"time"

	"lexgate/internal/judgments"
	"lexgate/internal/judgments/extract"
	"lexgate/internal/judgments/merge"
	"lexgate/internal/judgments/normalize"
	"lexgate/internal/judgments/paginate"
	"lexgate/internal/judgments/providers"
	"lexgate/internal/judgments/transport"
)

// DefaultBaseURL is the public UZP judgments portal.
const DefaultBaseURL = "https://orzeczenia.uzp.gov.pl"

const courtName = "Krajowa Izba Odwoławcza"

// Provider scrapes the UZP portal.
type Provider struct {
	baseURL string
	client  *transport.Client
}

// New creates a portal adapter. An empty baseURL selects the public portal.
func New(baseURL string, client *transport.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{baseURL: baseURL, client: client}
}

func (p *Provider) ID() string { return providers.NamePortal }

// Search always returns an empty result set. The portal only exposes search
// through UI automation, so an empty page with totalCount=0 is the contract,
// not an error.
func (p *Provider) Search(_ context.Context, _ judgments.SearchParams) (*judgments.SearchResult, error) {
	total := 0
	return &judgments.SearchResult{
		Results:    []judgments.Judgment{},
		TotalCount: &total,
	}, nil
}

// GetDetail fetches the rendered judgment page and reconstructs metadata
// from its text. Extraction is heuristic; when no case-number pattern
// matches, the requested id itself becomes the case number.
func (p *Provider) GetDetail(ctx context.Context, params judgments.DetailParams) (*judgments.Detail, error) {
	html, err := p.client.GetHTML(ctx, p.detailURL(params.ID))
	if err != nil {
		return nil, transport.WrapError(p.ID(), "getDetail", err)
	}

	text := normalize.ExtractText(html, normalize.Options{PreserveLists: true})

	extracted := judgments.Metadata{
		CaseNumbers:  extract.CaseNumbers(text),
		JudgmentDate: extract.JudgmentDate(text),
		Type:         extract.JudgmentType(text),
		Decision:     extract.DecisionSentence(text),
		CourtName:    courtName,
	}
	meta := merge.Metadata(extracted)
	if len(meta.CaseNumbers) == 0 {
		meta.CaseNumbers = []string{params.ID}
	}

	window, cont := paginate.Paginate(text, params.MaxChars, params.Offset)
	return &judgments.Detail{
		Metadata:     meta,
		Content:      window,
		Continuation: cont,
		SourceLinks:  p.SourceLinks(params.ID),
	}, nil
}

// SourceLinks returns the portal URL for an id. Pure, no network.
func (p *Provider) SourceLinks(id string) judgments.SourceLinks {
	return judgments.SourceLinks{
		"portal": p.detailURL(id),
	}
}

// Health probes the portal landing page.
func (p *Provider) Health(ctx context.Context) judgments.Health {
	start := time.Now()
	_, err := p.client.GetHTML(ctx, p.baseURL)
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

func (p *Provider) detailURL(id string) string {
	return p.baseURL + "/Home/Details/" + url.PathEscape(id)
}
