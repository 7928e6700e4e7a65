// Package paginate slices normalized judgment text into bounded windows with
// continuation offsets. Offsets count runes, not bytes, so windows never
// split a multi-byte character.
package paginate

import (
	"lexgate/internal/judgments"
	"lexgate/internal/judgments/normalize"
)

// DefaultMaxChars bounds a content window when the caller does not pick one.
const DefaultMaxChars = 5000

// Paginate returns the window fullText[offset:offset+maxChars] and the
// continuation describing where to resume. Offsets are clamped to the text
// length; an offset at or past the end yields an empty window with
// truncated=false, which is the "no more content" contract relied on by
// repeated calls with a stable text.
func Paginate(fullText string, maxChars, offset int) (string, judgments.Continuation) {
	runes := []rune(fullText)
	total := len(runes)

	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := offset + maxChars
	if end > total {
		end = total
	}

	cont := judgments.Continuation{
		Truncated:   end < total,
		TotalLength: total,
	}
	if cont.Truncated {
		next := end
		cont.NextOffset = &next
	}
	return string(runes[offset:end]), cont
}

// NormalizeAndPaginate extracts text from HTML and paginates it in one step
// for HTML-backed providers.
func NormalizeAndPaginate(html string, maxChars, offset int, opts normalize.Options) (string, judgments.Continuation) {
	return Paginate(normalize.ExtractText(html, opts), maxChars, offset)
}
