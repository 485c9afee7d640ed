package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// SendOptions are the client-side knobs for posting a notification.
type SendOptions struct {
	AppName       string
	ReplacesID    uint32
	Icon          string
	Summary       string
	Body          string
	Urgency       int
	ExpireTimeout int32 // milliseconds, -1 = server default, 0 = never
	Hints         map[string]dbus.Variant
}

// Send posts a notification to whatever server owns the notification name
// and returns the assigned id.
func Send(opts SendOptions) (uint32, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	hints := map[string]dbus.Variant{}
	for k, v := range opts.Hints {
		hints[k] = v
	}
	hints["urgency"] = dbus.MakeVariant(byte(opts.Urgency))

	obj := conn.Object(BusName, Path)
	call := obj.Call(Interface+".Notify", 0,
		opts.AppName,
		opts.ReplacesID,
		opts.Icon,
		opts.Summary,
		opts.Body,
		[]string{},
		hints,
		opts.ExpireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("Notify call failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to read notification id: %w", err)
	}
	return id, nil
}

// Status is the daemon state reported over the control interface.
type Status struct {
	Visible int
	Hidden  int
	Paused  bool

	// Server identity from GetServerInformation.
	Name    string
	Version string
}

// QueryStatus fetches the daemon's display state and identity.
func QueryStatus() (*Status, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var st Status

	var visible, hidden uint32
	obj := conn.Object(ControlBusName, ControlPath)
	call := obj.Call(ControlInterface+".Status", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("is popstackd running? %w", call.Err)
	}
	if err := call.Store(&visible, &hidden, &st.Paused); err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	st.Visible = int(visible)
	st.Hidden = int(hidden)

	var vendor, specVersion string
	info := conn.Object(BusName, Path)
	call = info.Call(Interface+".GetServerInformation", 0)
	if call.Err == nil {
		_ = call.Store(&st.Name, &vendor, &st.Version, &specVersion)
	}

	return &st, nil
}

// SetPaused asks the daemon to pause or resume display.
func SetPaused(paused bool) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	call := conn.Object(ControlBusName, ControlPath).Call(ControlInterface+".SetPaused", 0, paused)
	if call.Err != nil {
		return fmt.Errorf("is popstackd running? %w", call.Err)
	}
	return nil
}

// CloseAll asks the daemon to dismiss everything.
func CloseAll() (int, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	call := conn.Object(ControlBusName, ControlPath).Call(ControlInterface+".CloseAll", 0)
	if call.Err != nil {
		return 0, fmt.Errorf("is popstackd running? %w", call.Err)
	}

	var count uint32
	if err := call.Store(&count); err != nil {
		return 0, fmt.Errorf("failed to read close count: %w", err)
	}
	return int(count), nil
}
