package paginate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexgate/internal/judgments/normalize"
)

func TestPaginate(t *testing.T) {
	t.Run("full text when maxChars covers it", func(t *testing.T) {
		window, cont := Paginate("short text", 100, 0)
		assert.Equal(t, "short text", window)
		assert.False(t, cont.Truncated)
		assert.Nil(t, cont.NextOffset)
		assert.Equal(t, 10, cont.TotalLength)
	})

	t.Run("truncated window reports next offset", func(t *testing.T) {
		full := strings.Repeat("x", 2500)
		window, cont := Paginate(full, 1000, 0)
		assert.Len(t, window, 1000)
		assert.True(t, cont.Truncated)
		require.NotNil(t, cont.NextOffset)
		assert.Equal(t, 1000, *cont.NextOffset)
		assert.Equal(t, 2500, cont.TotalLength)

		// Resuming at the continuation offset yields the adjacent window.
		window2, cont2 := Paginate(full, 1000, *cont.NextOffset)
		assert.Len(t, window2, 1000)
		require.NotNil(t, cont2.NextOffset)
		assert.Equal(t, 2000, *cont2.NextOffset)

		window3, cont3 := Paginate(full, 1000, *cont2.NextOffset)
		assert.Len(t, window3, 500)
		assert.False(t, cont3.Truncated)
		assert.Nil(t, cont3.NextOffset)
	})

	t.Run("offset at or past the end is empty, not an error", func(t *testing.T) {
		for _, offset := range []int{11, 100, 1 << 20} {
			window, cont := Paginate("eleven char", 50, offset)
			assert.Empty(t, window)
			assert.False(t, cont.Truncated)
			assert.Nil(t, cont.NextOffset)
			assert.Equal(t, 11, cont.TotalLength)
		}
	})

	t.Run("negative offset clamps to zero", func(t *testing.T) {
		window, _ := Paginate("abc", 2, -5)
		assert.Equal(t, "ab", window)
	})

	t.Run("offsets count runes not bytes", func(t *testing.T) {
		full := "żółćąę" // 6 runes, 12 bytes
		window, cont := Paginate(full, 3, 0)
		assert.Equal(t, "żół", window)
		require.NotNil(t, cont.NextOffset)
		assert.Equal(t, 3, *cont.NextOffset)
		assert.Equal(t, 6, cont.TotalLength)

		rest, cont2 := Paginate(full, 3, 3)
		assert.Equal(t, "ćąę", rest)
		assert.False(t, cont2.Truncated)
	})

	t.Run("zero maxChars selects the default", func(t *testing.T) {
		full := strings.Repeat("y", DefaultMaxChars+1)
		window, cont := Paginate(full, 0, 0)
		assert.Len(t, window, DefaultMaxChars)
		assert.True(t, cont.Truncated)
	})

	t.Run("empty text", func(t *testing.T) {
		window, cont := Paginate("", 100, 0)
		assert.Empty(t, window)
		assert.False(t, cont.Truncated)
		assert.Equal(t, 0, cont.TotalLength)
	})
}

func TestNormalizeAndPaginate(t *testing.T) {
	html := "<p>pierwsza część</p><p>druga część</p>"
	window, cont := NormalizeAndPaginate(html, 1000, 0, normalize.Options{})
	assert.Equal(t, "pierwsza część\ndruga część", window)
	assert.False(t, cont.Truncated)
}
