package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popstack/internal/dbus"
)

var statusOpts struct {
	jsonOutput bool
	waybar     bool
}

// Styles for the human-readable status output.
var (
	statusLabelStyle    = lipgloss.NewStyle().Bold(true)
	statusOKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusPausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusSubdued       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusCriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's display state",
	Long: `Show how many notifications are displayed and queued, and whether
the stack is paused.

With --waybar the output is Waybar's custom module JSON format:

  "custom/notifications": {
    "exec": "popstack status --waybar",
    "interval": 5,
    "return-type": "json",
    "on-click": "popstack close-all"
  }`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.jsonOutput, "json", false,
		"Output raw JSON")
	statusCmd.Flags().BoolVar(&statusOpts.waybar, "waybar", false,
		"Output Waybar custom module JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := dbus.QueryStatus()
	if err != nil {
		if statusOpts.waybar {
			return outputJSON(WaybarStatus{Alt: "error", Class: "error"})
		}
		return err
	}

	switch {
	case statusOpts.waybar:
		return outputJSON(waybarStatus(st))
	case statusOpts.jsonOutput:
		return outputJSON(st)
	default:
		printStatus(st)
		return nil
	}
}

func printStatus(st *dbus.Status) {
	daemon := st.Name
	if daemon == "" {
		daemon = "unknown"
	}
	fmt.Printf("%s %s\n", statusLabelStyle.Render("Daemon:"),
		statusSubdued.Render(fmt.Sprintf("%s %s", daemon, st.Version)))

	state := statusOKStyle.Render("running")
	if st.Paused {
		state = statusPausedStyle.Render("paused")
	}
	fmt.Printf("%s %s\n", statusLabelStyle.Render("State:"), state)

	displayed := english.Plural(st.Visible, "notification", "")
	if st.Visible > 0 {
		displayed = statusCriticalStyle.Render(displayed)
	}
	fmt.Printf("%s %s\n", statusLabelStyle.Render("Displayed:"), displayed)

	if st.Hidden > 0 {
		fmt.Printf("%s %s\n", statusLabelStyle.Render("Waiting:"),
			english.Plural(st.Hidden, "notification", ""))
	}
}

func waybarStatus(st *dbus.Status) WaybarStatus {
	total := st.Visible + st.Hidden

	class := "empty"
	switch {
	case st.Paused:
		class = "paused"
	case st.Visible > 0:
		class = "active"
	}

	text := ""
	if total > 0 {
		text = fmt.Sprintf("%d", total)
	}

	tooltip := english.Plural(st.Visible, "notification", "") + " displayed"
	if st.Hidden > 0 {
		tooltip += fmt.Sprintf("\n%s waiting", english.Plural(st.Hidden, "notification", ""))
	}
	if st.Paused {
		tooltip += "\npaused"
	}

	return WaybarStatus{
		Text:       text,
		Alt:        class,
		Tooltip:    tooltip,
		Class:      class,
		Percentage: min(total, 100),
	}
}

// outputJSON writes v to stdout.
func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(v)
}
