package main

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popstack/internal/dbus"
)

var closeAllOpts struct {
	quiet bool
}

var closeAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Dismiss all notifications",
	Long:  `Dismiss every displayed and queued notification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := dbus.CloseAll()
		if err != nil {
			return err
		}
		if !closeAllOpts.quiet {
			fmt.Printf("Dismissed %s\n", english.Plural(count, "notification", ""))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(closeAllCmd)

	closeAllCmd.Flags().BoolVarP(&closeAllOpts.quiet, "quiet", "q", false,
		"Suppress output")
}
