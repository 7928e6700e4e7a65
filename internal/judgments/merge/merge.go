// Package merge combines partial metadata fragments into one canonical
// record. A provider adapter typically merges a structured-API fragment with
// a text-extracted fragment; neither may clobber known facts with blanks.
package merge

import (
	"lexgate/internal/judgments"
	platformstrings "lexgate/pkg/platform/strings"
)

// Metadata folds fragments left to right into an all-empty accumulator.
// Non-empty array fields are unioned preserving first-seen order; non-empty
// scalar fields overwrite (last non-empty wins). Empty fragments are no-ops.
func Metadata(fragments ...judgments.Metadata) judgments.Metadata {
	out := judgments.NewMetadata()
	for _, frag := range fragments {
		out.CaseNumbers = platformstrings.Union(out.CaseNumbers, frag.CaseNumbers)
		out.LegalBases = platformstrings.Union(out.LegalBases, frag.LegalBases)
		out.Judges = platformstrings.Union(out.Judges, frag.Judges)
		out.Keywords = platformstrings.Union(out.Keywords, frag.Keywords)

		if frag.JudgmentDate != "" {
			out.JudgmentDate = frag.JudgmentDate
		}
		if frag.Type != "" {
			out.Type = frag.Type
		}
		if frag.Decision != "" {
			out.Decision = frag.Decision
		}
		if frag.CourtName != "" {
			out.CourtName = frag.CourtName
		}
	}
	return out
}
