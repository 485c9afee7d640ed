package dbus

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// ControlInterface is the popstack control interface name.
	ControlInterface = "com.github.jmylchreest.popstack.Control"
	// ControlPath is the control object path.
	ControlPath = "/com/github/jmylchreest/popstack"
	// ControlBusName is the bus name claimed for the control interface.
	ControlBusName = "com.github.jmylchreest.popstack"
)

// Controller is what the control interface needs from the daemon.
type Controller interface {
	// Status returns the displayed count, waiting count and pause state.
	Status() (visible int, hidden int, paused bool)
	// SetPaused pauses or resumes display.
	SetPaused(paused bool)
	// CloseAll dismisses everything and returns how many entries dropped.
	CloseAll() int
}

// ControlServer exposes daemon state over the bus for the popstack CLI.
type ControlServer struct {
	conn       *dbus.Conn
	controller Controller
	logger     *slog.Logger
}

// NewControlServer creates a ControlServer over an existing connection,
// usually the notification server's.
func NewControlServer(conn *dbus.Conn, controller Controller, logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{conn: conn, controller: controller, logger: logger}
}

// Start exports the control object and claims the control name.
func (s *ControlServer) Start() error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Export(s, ControlPath, ControlInterface); err != nil {
		return fmt.Errorf("failed to export control object: %w", err)
	}

	node := &introspect.Node{
		Name: ControlPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    ControlInterface,
				Methods: controlMethods(),
			},
		},
	}
	if err := s.conn.Export(introspect.NewIntrospectable(node), ControlPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export control introspectable: %w", err)
	}

	reply, err := s.conn.RequestName(ControlBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request control bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("control bus name %s already taken", ControlBusName)
	}

	s.logger.Debug("control interface started", "interface", ControlInterface)
	return nil
}

// Stop releases the control bus name.
func (s *ControlServer) Stop() error {
	if s.conn == nil {
		return nil
	}
	_, err := s.conn.ReleaseName(ControlBusName)
	return err
}

// Status returns the daemon's display state.
// D-Bus method: Status() -> (uub)
func (s *ControlServer) Status() (uint32, uint32, bool, *dbus.Error) {
	visible, hidden, paused := s.controller.Status()
	return uint32(visible), uint32(hidden), paused, nil
}

// SetPaused pauses or resumes display.
// D-Bus method: SetPaused(b) -> nothing
func (s *ControlServer) SetPaused(paused bool) *dbus.Error {
	s.logger.Debug("SetPaused called", "paused", paused)
	s.controller.SetPaused(paused)
	return nil
}

// CloseAll dismisses all entries.
// D-Bus method: CloseAll() -> u
func (s *ControlServer) CloseAll() (uint32, *dbus.Error) {
	s.logger.Debug("CloseAll called")
	return uint32(s.controller.CloseAll()), nil
}

func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "visible", Type: "u", Direction: "out"},
				{Name: "hidden", Type: "u", Direction: "out"},
				{Name: "paused", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "SetPaused",
			Args: []introspect.Arg{
				{Name: "paused", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "CloseAll",
			Args: []introspect.Arg{
				{Name: "count", Type: "u", Direction: "out"},
			},
		},
	}
}
