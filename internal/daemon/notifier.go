package daemon

import (
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/popstack/internal/dbus"
	"github.com/jmylchreest/popstack/internal/model"
)

// Notifier posts the daemon's own messages, such as config reload failures,
// through the normal notification path. Repeats of the same message within
// the interval are dropped so a broken config does not flood the stack.
type Notifier struct {
	mu          sync.Mutex
	logger      *slog.Logger
	inject      func(n *dbus.Notification) uint32
	lastPosted  map[string]time.Time
	minInterval time.Duration
}

// NewNotifier creates a Notifier posting through inject, normally the
// notification server's NotifyInternal.
func NewNotifier(inject func(n *dbus.Notification) uint32, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:      logger,
		inject:      inject,
		lastPosted:  make(map[string]time.Time),
		minInterval: 5 * time.Second,
	}
}

// Warn posts a normal-urgency message.
func (n *Notifier) Warn(summary, body string) {
	n.post(summary, body, model.UrgencyNormal)
}

// Error posts a critical message.
func (n *Notifier) Error(summary, body string) {
	n.post(summary, body, model.UrgencyCritical)
}

func (n *Notifier) post(summary, body string, urgency int) {
	n.mu.Lock()
	key := summary + "\x00" + body
	if last, ok := n.lastPosted[key]; ok && time.Since(last) < n.minInterval {
		n.mu.Unlock()
		return
	}
	n.lastPosted[key] = time.Now()
	n.mu.Unlock()

	n.logger.Debug("posting internal notification", "summary", summary, "urgency", urgency)
	n.inject(&dbus.Notification{
		AppName: "popstackd",
		Summary: summary,
		Body:    body,
		Hints: map[string]godbus.Variant{
			"urgency": godbus.MakeVariant(byte(urgency)),
		},
		ExpireTimeout: -1,
	})
}
