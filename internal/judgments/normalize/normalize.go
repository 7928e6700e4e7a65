// Package normalize converts raw upstream HTML into clean plain text and
// extracts document-level fields (title, meta description) from it.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Options control text extraction.
type Options struct {
	// PreserveLists renders <li> items as "- " bullet lines instead of bare
	// newlines.
	PreserveLists bool
	// MaxNewlines caps consecutive newlines in the output. Zero means the
	// default of 2.
	MaxNewlines int
}

var (
	reScript   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reComment  = regexp.MustCompile(`(?s)<!--.*?-->`)
	reLineTag  = regexp.MustCompile(`(?i)<(?:br|hr)\s*/?>`)
	reListItem = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	reCellEnd  = regexp.MustCompile(`(?i)</t[dh]>`)
	reBlockTag = regexp.MustCompile(`(?i)</?(?:p|div|h[1-6]|table|tr|thead|tbody|ul|ol|dl|dt|dd|blockquote|pre|section|article|header|footer|form|fieldset)\b[^>]*>`)
	reAnyTag   = regexp.MustCompile(`(?s)<[^>]*>`)

	reSpaces    = regexp.MustCompile(`[ \t\x{00a0}]+`)
	reTrailPipe = regexp.MustCompile(`\s*\|\s*$`)

	reTitle    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	reHeading  = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	reMetaDesc = regexp.MustCompile(`(?is)<meta\s+[^>]*name\s*=\s*["']description["'][^>]*>`)
	reContent  = regexp.MustCompile(`(?is)content\s*=\s*["']([^"']*)["']`)

	reNumEntity = regexp.MustCompile(`&#(x[0-9a-fA-F]+|[0-9]+);`)
)

// namedEntities is the fixed decode table, applied in order. "&amp;" decodes
// last so double-encoded input decodes exactly one level per pass.
var namedEntities = [][2]string{
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&apos;", "'"},
	{"&nbsp;", " "},
	{"&copy;", "©"},
	{"&reg;", "®"},
	{"&trade;", "™"},
	{"&hellip;", "…"},
	{"&ndash;", "–"},
	{"&mdash;", "—"},
	{"&laquo;", "«"},
	{"&raquo;", "»"},
	{"&bdquo;", "„"},
	{"&rdquo;", "”"},
	{"&ldquo;", "“"},
	{"&lsquo;", "‘"},
	{"&rsquo;", "’"},
	{"&sect;", "§"},
	{"&para;", "¶"},
	{"&deg;", "°"},
	{"&oacute;", "ó"},
	{"&Oacute;", "Ó"},
	{"&amp;", "&"},
}

// ExtractText strips markup from HTML and returns normalized plain text.
// Script and style blocks lose their content entirely, block tags become
// newlines, table cells become pipe-separated tokens, and entities are
// decoded. Malformed markup degrades to best-effort tag stripping.
func ExtractText(html string, opts Options) string {
	if html == "" {
		return ""
	}
	maxNewlines := opts.MaxNewlines
	if maxNewlines <= 0 {
		maxNewlines = 2
	}

	text := reScript.ReplaceAllString(html, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reComment.ReplaceAllString(text, "")

	text = reLineTag.ReplaceAllString(text, "\n")
	if opts.PreserveLists {
		text = reListItem.ReplaceAllString(text, "\n- ")
	} else {
		text = reListItem.ReplaceAllString(text, "\n")
	}
	text = reCellEnd.ReplaceAllString(text, " | ")
	text = reBlockTag.ReplaceAllString(text, "\n")
	text = reAnyTag.ReplaceAllString(text, "")

	text = DecodeEntities(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = reSpaces.ReplaceAllString(line, " ")
		line = reTrailPipe.ReplaceAllString(line, "")
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	run := strings.Repeat("\n", maxNewlines)
	for strings.Contains(text, run+"\n") {
		text = strings.ReplaceAll(text, run+"\n", run)
	}
	return strings.TrimSpace(text)
}

// DecodeEntities decodes the fixed table of named entities plus decimal and
// hexadecimal numeric references. Decoding already-decoded text is a no-op,
// so repeated application is idempotent.
func DecodeEntities(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	for _, e := range namedEntities {
		text = strings.ReplaceAll(text, e[0], e[1])
	}
	return reNumEntity.ReplaceAllStringFunc(text, func(m string) string {
		body := m[2 : len(m)-1]
		var code int64
		var err error
		if body[0] == 'x' || body[0] == 'X' {
			code, err = strconv.ParseInt(body[1:], 16, 32)
		} else {
			code, err = strconv.ParseInt(body, 10, 32)
		}
		if err != nil || code <= 0 {
			return m
		}
		return string(rune(code))
	})
}

// ExtractTitle returns the document title, preferring <title> and falling
// back to the first heading. Returns empty when neither is present.
func ExtractTitle(html string) string {
	if m := reTitle.FindStringSubmatch(html); m != nil {
		return cleanInline(m[1])
	}
	if m := reHeading.FindStringSubmatch(html); m != nil {
		return cleanInline(m[1])
	}
	return ""
}

// ExtractMetaDescription returns the content of the description meta tag, or
// empty when absent.
func ExtractMetaDescription(html string) string {
	tag := reMetaDesc.FindString(html)
	if tag == "" {
		return ""
	}
	if m := reContent.FindStringSubmatch(tag); m != nil {
		return cleanInline(m[1])
	}
	return ""
}

func cleanInline(s string) string {
	s = reAnyTag.ReplaceAllString(s, "")
	s = DecodeEntities(s)
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
