package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popstack/internal/dbus"
)

// pauseCmd holds back new popups; notifications queue until resume.
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause notification display",
	Long: `Pause notification display. Incoming notifications queue up and
are shown once display is resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dbus.SetPaused(true); err != nil {
			return err
		}
		fmt.Println("Notifications paused")
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume notification display",
	Long:  `Resume notification display and show anything that queued up while paused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dbus.SetPaused(false); err != nil {
			return err
		}
		fmt.Println("Notifications resumed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}
