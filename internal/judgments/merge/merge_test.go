package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexgate/internal/judgments"
)

func TestMetadata(t *testing.T) {
	t.Run("no fragments yields empty canonical record", func(t *testing.T) {
		out := Metadata()
		assert.Empty(t, out.CaseNumbers)
		assert.NotNil(t, out.CaseNumbers)
		assert.NotNil(t, out.LegalBases)
		assert.NotNil(t, out.Judges)
		assert.NotNil(t, out.Keywords)
	})

	t.Run("array fields union preserving first-seen order", func(t *testing.T) {
		a := judgments.Metadata{CaseNumbers: []string{"KIO 1/21", "KIO 2/21"}}
		b := judgments.Metadata{CaseNumbers: []string{"KIO 2/21", "KIO 3/21"}}
		out := Metadata(a, b)
		assert.Equal(t, []string{"KIO 1/21", "KIO 2/21", "KIO 3/21"}, out.CaseNumbers)
	})

	t.Run("later non-empty scalars overwrite", func(t *testing.T) {
		a := judgments.Metadata{JudgmentDate: "2021-01-01", Type: judgments.TypeSentence}
		b := judgments.Metadata{JudgmentDate: "2021-02-02"}
		out := Metadata(a, b)
		assert.Equal(t, "2021-02-02", out.JudgmentDate)
		assert.Equal(t, judgments.TypeSentence, out.Type)
	})

	t.Run("blanks never clobber known values", func(t *testing.T) {
		a := judgments.Metadata{
			CaseNumbers: []string{"KIO 5/20"},
			Decision:    "oddala odwołanie.",
			CourtName:   "Krajowa Izba Odwoławcza",
			Judges:      []string{"Jan Kowalski"},
		}
		out := Metadata(a, judgments.Metadata{})
		assert.Equal(t, a.CaseNumbers, out.CaseNumbers)
		assert.Equal(t, a.Decision, out.Decision)
		assert.Equal(t, a.CourtName, out.CourtName)
		assert.Equal(t, a.Judges, out.Judges)
	})

	t.Run("fragments from both upstream shapes combine", func(t *testing.T) {
		extracted := judgments.Metadata{
			CaseNumbers:  []string{"KIO 100/21"},
			JudgmentDate: "2021-05-12",
			Decision:     "uwzględnia odwołanie.",
		}
		structured := judgments.Metadata{
			CaseNumbers: []string{"KIO 100/21", "KIO 101/21"},
			Type:        judgments.TypeSentence,
			Keywords:    []string{"zamówienia publiczne"},
		}
		out := Metadata(extracted, structured)
		assert.Equal(t, []string{"KIO 100/21", "KIO 101/21"}, out.CaseNumbers)
		assert.Equal(t, "2021-05-12", out.JudgmentDate)
		assert.Equal(t, "uwzględnia odwołanie.", out.Decision)
		assert.Equal(t, judgments.TypeSentence, out.Type)
		assert.Equal(t, []string{"zamówienia publiczne"}, out.Keywords)
	})

	t.Run("array entries are trimmed and deduplicated", func(t *testing.T) {
		out := Metadata(judgments.Metadata{Judges: []string{" Anna Nowak ", "Anna Nowak", ""}})
		assert.Equal(t, []string{"Anna Nowak"}, out.Judges)
	})
}
