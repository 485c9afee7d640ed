// Package model defines the core data structures for popstack.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Urgency levels matching the freedesktop notification spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// ColorTriple holds the foreground, background and frame color strings
// resolved for one entry's urgency level.
type ColorTriple struct {
	Foreground string
	Background string
	Frame      string
}

// RawImage is a decoded-at-the-source pixel buffer, as carried by the
// image-data notification hint.
type RawImage struct {
	Width         int
	Height        int
	RowStride     int
	HasAlpha      bool
	BitsPerSample int
	Channels      int
	Data          []byte
}

// Valid reports whether the buffer plausibly describes an image.
func (r *RawImage) Valid() bool {
	if r == nil {
		return false
	}
	return r.Width > 0 && r.Height > 0 && r.RowStride > 0 && len(r.Data) >= r.RowStride*(r.Height-1)
}

// Entry is one notification's content as owned by the stack manager.
//
// The render pipeline reads entries but never owns them; the only fields it
// writes back are DisplayedHeight (consumed by the stack manager for
// visibility decisions) and FirstRender (cleared after the first pass so
// markup parse errors are logged once).
type Entry struct {
	// Identity
	ID     string // ULID, stable for the entry's lifetime
	BusID  uint32 // D-Bus notification id, reused on replacement
	Source string

	// Content
	AppName string
	Summary string
	Body    string

	// Icon reference: a name, absolute path or file:// URI. Empty when the
	// notification carried no icon.
	Icon string
	// RawIcon is pixel data from the image-data hint; it wins over Icon
	// unless IconOverridden is set.
	RawIcon        *RawImage
	IconOverridden bool

	Urgency int
	Colors  ColorTriple

	// TextToRender is the markup string handed to the shaping engine,
	// refreshed from Summary/Body by UpdateTextToRender before each pass.
	TextToRender string

	// FirstRender is true until the entry has been through one render pass.
	FirstRender bool

	// DisplayedHeight is the entry's height in the last rendered stack,
	// written by the layout builder.
	DisplayedHeight int

	Timestamp time.Time
	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time
}

// Validation errors.
var (
	ErrEmptyID        = errors.New("entry id cannot be empty")
	ErrEmptySummary   = errors.New("summary cannot be empty")
	ErrInvalidUrgency = errors.New("urgency must be 0, 1, or 2")
)

// NewEntry creates an Entry with a generated ULID and normal urgency.
func NewEntry(source string) (*Entry, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Entry{
		ID:          id.String(),
		Source:      source,
		Urgency:     UrgencyNormal,
		FirstRender: true,
		Timestamp:   time.Now(),
	}, nil
}

// Validate checks that the entry has all required fields.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Summary == "" {
		return ErrEmptySummary
	}
	if e.Urgency < UrgencyLow || e.Urgency > UrgencyCritical {
		return ErrInvalidUrgency
	}
	return nil
}

// SetUrgency sets the urgency level, defaulting invalid values to normal.
func (e *Entry) SetUrgency(level int) {
	if level < UrgencyLow || level > UrgencyCritical {
		level = UrgencyNormal
	}
	e.Urgency = level
}

// UrgencyName returns the human-readable urgency name.
func (e *Entry) UrgencyName() string {
	return UrgencyNames[e.Urgency]
}

// UpdateTextToRender rebuilds the markup string shown for this entry.
// The summary is rendered bold above the body, matching the conventional
// notification format.
func (e *Entry) UpdateTextToRender() {
	var b strings.Builder
	if e.Summary != "" {
		b.WriteString("<b>")
		b.WriteString(e.Summary)
		b.WriteString("</b>")
	}
	if e.Body != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Body)
	}
	e.TextToRender = b.String()
}

// Expired reports whether the entry's timeout has elapsed at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Clone creates a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	clone := *e
	if e.RawIcon != nil {
		raw := *e.RawIcon
		raw.Data = append([]byte(nil), e.RawIcon.Data...)
		clone.RawIcon = &raw
	}
	return &clone
}
