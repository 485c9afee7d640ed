// Package markup handles notification body markup: the explicit parse result
// consumed by the render pipeline and a plain-text fallback stripper.
package markup

import (
	"strings"
)

// Parsed is the outcome of running entry text through the markup parser.
// Exactly one of the two shapes holds: a successful parse carries the plain
// text plus an opaque attribute handle from the shaping engine; a failed
// parse carries the stripped fallback text and the parse error.
type Parsed struct {
	// Text is the plain text to display. On fallback it is the result of
	// stripping markup syntax from the input.
	Text string

	// Attributes is an opaque styled-attribute handle owned by the shaping
	// engine. Nil on fallback.
	Attributes any

	// Err is the parse error that forced the fallback, nil on success.
	Err error
}

// Styled reports whether the parse succeeded and Attributes is usable.
func (p Parsed) Styled() bool {
	return p.Err == nil
}

// Fallback builds a Parsed for a failed parse from the original markup text.
func Fallback(text string, err error) Parsed {
	return Parsed{Text: Strip(text), Err: err}
}

// entities that appear in notification markup. Unknown entities are kept
// verbatim.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Strip removes markup tags from text and resolves the basic XML entities,
// returning a best-effort plain rendering. It never fails: unterminated tags
// are dropped from the opening bracket onward.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '<' {
			b.WriteByte(c)
			continue
		}

		end := strings.IndexByte(text[i:], '>')
		if end < 0 {
			// Unterminated tag: drop the rest.
			break
		}

		tag := text[i+1 : i+end]
		if isLineBreak(tag) {
			b.WriteByte('\n')
		}
		i += end
	}

	return entityReplacer.Replace(b.String())
}

// isLineBreak reports whether a tag body is one of the <br> spellings that
// should survive stripping as a newline.
func isLineBreak(tag string) bool {
	tag = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(tag), "/"))
	return strings.EqualFold(tag, "br")
}
