package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexgate/internal/judgments"
)

func TestCaseNumbers(t *testing.T) {
	t.Run("finds KIO signatures in running text", func(t *testing.T) {
		text := "Sygn. akt: KIO 2584/13. Zob. także KIO/UZP 123/10 oraz ponownie KIO 2584/13."
		assert.Equal(t, []string{"KIO 2584/13", "KIO/UZP 123/10"}, CaseNumbers(text))
	})

	t.Run("normalizes internal whitespace", func(t *testing.T) {
		assert.Equal(t, []string{"KIO 7/21"}, CaseNumbers("sygn. KIO  7/21"))
	})

	t.Run("empty when nothing matches", func(t *testing.T) {
		assert.Empty(t, CaseNumbers("brak sygnatury w tym tekście"))
	})
}

func TestJudgmentDate(t *testing.T) {
	t.Run("iso date passes through", func(t *testing.T) {
		assert.Equal(t, "2021-05-12", JudgmentDate("judgmentDate: 2021-05-12"))
	})

	t.Run("worded polish date", func(t *testing.T) {
		assert.Equal(t, "2013-11-08", JudgmentDate("Wyrok z dnia 8 listopada 2013 r."))
		assert.Equal(t, "2020-09-30", JudgmentDate("z dnia 30 września 2020 r."))
	})

	t.Run("dotted date", func(t *testing.T) {
		assert.Equal(t, "2019-03-04", JudgmentDate("z dnia 4.03.2019"))
		assert.Equal(t, "2019-12-24", JudgmentDate("24.12.2019"))
	})

	t.Run("no partial parse leaks out", func(t *testing.T) {
		assert.Equal(t, "", JudgmentDate("z dnia 32 miesiąca bez roku"))
	})

	t.Run("date-shaped but impossible calendar dates are rejected", func(t *testing.T) {
		assert.Equal(t, "", JudgmentDate("spotkanie dnia 2021-13-45 w siedzibie Izby"))
		assert.Equal(t, "", JudgmentDate("pozycja 40.40.2021 w rejestrze"))
		assert.Equal(t, "", JudgmentDate("numer 99.2.2021 akt"))
		assert.Equal(t, "", JudgmentDate("31 kwietnia 2021"))
	})

	t.Run("invalid candidate falls through to a later valid one", func(t *testing.T) {
		assert.Equal(t, "2021-05-12", JudgmentDate("błędna data 2021-13-45, poprawiona na 2021-05-12"))
		assert.Equal(t, "2019-03-04", JudgmentDate("pozycja 40.40.2021, wyrok z dnia 4.03.2019"))
	})
}

func TestValidISODate(t *testing.T) {
	assert.True(t, ValidISODate("2021-05-12"))
	assert.True(t, ValidISODate("2020-02-29"))
	assert.False(t, ValidISODate("2021-13-45"))
	assert.False(t, ValidISODate("2021-02-29"))
	assert.False(t, ValidISODate(""))
	assert.False(t, ValidISODate("12.05.2021"))
}

func TestDecisionSentence(t *testing.T) {
	t.Run("finds the operative ruling", func(t *testing.T) {
		text := "Krajowa Izba Odwoławcza oddala odwołanie w całości. Koszty ponosi odwołujący."
		assert.Equal(t, "oddala odwołanie w całości.", DecisionSentence(text))
	})

	t.Run("recognizes discontinuation", func(t *testing.T) {
		text := "Izba umarza postępowanie odwoławcze. Dalsze wnioski pozostawiono bez rozpoznania."
		assert.Equal(t, "umarza postępowanie odwoławcze.", DecisionSentence(text))
	})

	t.Run("empty when unusual phrasing", func(t *testing.T) {
		assert.Equal(t, "", DecisionSentence("rozstrzygnięcie niestandardowe bez formuły"))
	})
}

func TestJudgmentType(t *testing.T) {
	cases := []struct {
		name string
		text string
		want judgments.JudgmentType
	}{
		{"wyrok means sentence", "WYROK z dnia 8 listopada 2013 r.", judgments.TypeSentence},
		{"postanowienie means decision", "POSTANOWIENIE Krajowej Izby Odwoławczej", judgments.TypeDecision},
		{"uchwała means resolution", "UCHWAŁA składu orzekającego", judgments.TypeResolution},
		{"decision is the fallback", "dokument bez słów kluczowych", judgments.TypeDecision},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JudgmentType(tc.text))
		})
	}
}
