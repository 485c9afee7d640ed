// Package stack manages which notification entries are on screen.
//
// Entries arrive from the bus, are displayed up to a configured cap and
// queue up beyond it. The manager is the single owner of entry lifetime:
// replacement, expiry, dismissal and promotion from the waiting queue all
// happen here, under one lock.
package stack

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/popstack/internal/model"
)

// ChangeType indicates the type of stack change.
type ChangeType int

const (
	// ChangeAdd indicates an entry became visible or queued.
	ChangeAdd ChangeType = iota
	// ChangeReplace indicates an entry was replaced in place.
	ChangeReplace
	// ChangeClose indicates an entry was closed.
	ChangeClose
	// ChangeClear indicates all entries were dropped.
	ChangeClear
)

// ChangeEvent signals stack content changes.
type ChangeEvent struct {
	Type  ChangeType
	BusID uint32
}

// Manager holds the displayed entries and the waiting queue with
// thread-safe operations. It implements the render engine's Source.
type Manager struct {
	mu        sync.Mutex
	displayed []*model.Entry
	waiting   []*model.Entry

	maxVisible int
	paused     bool

	subscribers []chan ChangeEvent
	closed      bool

	logger *slog.Logger
}

// NewManager creates a Manager showing at most maxVisible entries at once.
// maxVisible <= 0 means unlimited.
func NewManager(maxVisible int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		maxVisible: maxVisible,
		logger:     logger,
	}
}

// Push adds an entry, replacing any live entry with the same bus id. New
// entries go on screen when there is room and the stack is not paused,
// otherwise they wait.
func (m *Manager) Push(n *model.Entry) error {
	if err := n.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.replaceLocked(n) {
		m.notifyLocked(ChangeEvent{Type: ChangeReplace, BusID: n.BusID})
		return nil
	}

	if m.paused || !m.hasRoomLocked() {
		m.waiting = append(m.waiting, n)
	} else {
		m.displayed = append(m.displayed, n)
	}
	m.notifyLocked(ChangeEvent{Type: ChangeAdd, BusID: n.BusID})
	return nil
}

// replaceLocked swaps an existing entry with the same bus id in place,
// keeping its stack position. The replacement renders as if new.
func (m *Manager) replaceLocked(n *model.Entry) bool {
	if n.BusID == 0 {
		return false
	}
	for _, list := range [][]*model.Entry{m.displayed, m.waiting} {
		for i, old := range list {
			if old.BusID == n.BusID {
				n.FirstRender = true
				list[i] = n
				return true
			}
		}
	}
	return false
}

// CloseByBusID removes the entry with the given bus id. It reports whether
// an entry was found; the reason is forwarded to subscribers via the bus
// layer, not interpreted here.
func (m *Manager) CloseByBusID(id uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.displayed {
		if n.BusID == id {
			m.displayed = append(m.displayed[:i], m.displayed[i+1:]...)
			m.promoteLocked()
			m.notifyLocked(ChangeEvent{Type: ChangeClose, BusID: id})
			return true
		}
	}
	for i, n := range m.waiting {
		if n.BusID == id {
			m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
			m.notifyLocked(ChangeEvent{Type: ChangeClose, BusID: id})
			return true
		}
	}
	return false
}

// CloseAll drops every displayed and waiting entry and returns the bus ids
// of what was dropped, in display order then queue order.
func (m *Manager) CloseAll() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uint32, 0, len(m.displayed)+len(m.waiting))
	for _, n := range m.displayed {
		ids = append(ids, n.BusID)
	}
	for _, n := range m.waiting {
		ids = append(ids, n.BusID)
	}
	m.displayed = nil
	m.waiting = nil

	if len(ids) > 0 {
		m.notifyLocked(ChangeEvent{Type: ChangeClear})
	}
	return ids
}

// ExpireDue removes displayed entries whose deadline has passed and promotes
// waiting entries into the freed slots. It returns the bus ids that expired.
// Waiting entries never expire; their clock starts when they are shown.
func (m *Manager) ExpireDue(now time.Time) []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused {
		return nil
	}

	var expired []uint32
	kept := m.displayed[:0]
	for _, n := range m.displayed {
		if n.Expired(now) {
			expired = append(expired, n.BusID)
		} else {
			kept = append(kept, n)
		}
	}
	m.displayed = kept

	if len(expired) > 0 {
		m.promoteLocked()
		m.notifyLocked(ChangeEvent{Type: ChangeClose})
	}
	return expired
}

// NextDeadline returns the earliest expiry among displayed entries and
// whether one exists.
func (m *Manager) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deadline time.Time
	for _, n := range m.displayed {
		if n.ExpiresAt.IsZero() {
			continue
		}
		if deadline.IsZero() || n.ExpiresAt.Before(deadline) {
			deadline = n.ExpiresAt
		}
	}
	return deadline, !deadline.IsZero()
}

// SetPaused pauses or resumes display. Resuming promotes waiting entries
// into free slots.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.paused == paused {
		return
	}
	m.paused = paused
	if !paused {
		m.promoteLocked()
	}
	m.notifyLocked(ChangeEvent{Type: ChangeAdd})
}

// Paused reports whether display is paused.
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// SetMaxVisible changes the display cap, promoting or demoting entries to
// match. Demotion takes from the bottom of the stack.
func (m *Manager) SetMaxVisible(maxVisible int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxVisible = maxVisible
	if maxVisible > 0 && len(m.displayed) > maxVisible {
		overflow := m.displayed[maxVisible:]
		m.displayed = m.displayed[:maxVisible]
		m.waiting = append(overflow, m.waiting...)
	} else {
		m.promoteLocked()
	}
	m.notifyLocked(ChangeEvent{Type: ChangeAdd})
}

// promoteLocked moves waiting entries into free display slots, restarting
// their expiry clock so time spent queued does not count against them.
func (m *Manager) promoteLocked() {
	if m.paused {
		return
	}
	now := time.Now()
	for len(m.waiting) > 0 && m.hasRoomLocked() {
		n := m.waiting[0]
		m.waiting = m.waiting[1:]
		if !n.ExpiresAt.IsZero() {
			n.ExpiresAt = now.Add(n.ExpiresAt.Sub(n.Timestamp))
		}
		m.displayed = append(m.displayed, n)
	}
}

func (m *Manager) hasRoomLocked() bool {
	return m.maxVisible <= 0 || len(m.displayed) < m.maxVisible
}

// HasRoom reports whether a new entry would be displayed immediately.
func (m *Manager) HasRoom() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.paused && m.hasRoomLocked()
}

// Visible returns the displayed entries in stack order. The slice is a
// copy; the entries are shared and must only be mutated on the render path.
func (m *Manager) Visible() []*model.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Entry, len(m.displayed))
	copy(out, m.displayed)
	return out
}

// HiddenCount returns how many entries are waiting off screen.
func (m *Manager) HiddenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiting)
}

// Subscribe returns a channel receiving change events. The channel is
// buffered and events are dropped rather than blocking the stack.
func (m *Manager) Subscribe() <-chan ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan ChangeEvent, 16)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *Manager) notifyLocked(ev ChangeEvent) {
	for _, ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
			m.logger.Debug("dropping stack change event, subscriber is slow")
		}
	}
}

// Errors
var (
	ErrClosed = stackError("stack is closed")
)

type stackError string

func (e stackError) Error() string {
	return string(e)
}

// Close shuts the manager down and closes all subscriber channels.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
}
