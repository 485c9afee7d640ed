package gtk

import (
	"github.com/diamondburned/gotk4/pkg/pango"
)

// MarkupParser parses pango markup into plain text plus an attribute list.
type MarkupParser struct{}

// NewMarkupParser creates a MarkupParser.
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{}
}

// Parse parses pango markup. The attribute handle is a *pango.AttrList,
// consumed by this package's text layouts.
func (MarkupParser) Parse(text string) (string, any, error) {
	attrs, plain, _, err := pango.ParseMarkup(text, 0)
	if err != nil {
		return "", nil, err
	}
	return plain, attrs, nil
}
