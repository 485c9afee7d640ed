package main

import (
	"fmt"
	"strings"

	godbus "github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popstack/internal/dbus"
	"github.com/jmylchreest/popstack/internal/model"
)

var sendOpts struct {
	appName    string
	icon       string
	urgency    string
	timeout    int32
	replacesID uint32
	transient  bool
	printID    bool
}

var sendCmd = &cobra.Command{
	Use:   "send SUMMARY [BODY]",
	Short: "Post a notification",
	Long: `Post a notification to the running notification daemon.

The summary is required; the body is optional and may contain Pango
markup (<b>, <i>, <u>) when the daemon supports it.

Examples:

  popstack send "Build finished"
  popstack send -u critical "Disk almost full" "Less than 1 GiB left on /"
  popstack send -t 2000 --transient "Volume" "42%"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.appName, "app-name", "a", "popstack",
		"Application name to report")
	sendCmd.Flags().StringVarP(&sendOpts.icon, "icon", "i", "",
		"Icon name or path")
	sendCmd.Flags().StringVarP(&sendOpts.urgency, "urgency", "u", "normal",
		"Urgency level (low, normal, critical)")
	sendCmd.Flags().Int32VarP(&sendOpts.timeout, "expire-time", "t", -1,
		"Timeout in milliseconds (-1 = daemon default, 0 = never expire)")
	sendCmd.Flags().Uint32VarP(&sendOpts.replacesID, "replace-id", "r", 0,
		"ID of the notification to replace")
	sendCmd.Flags().BoolVar(&sendOpts.transient, "transient", false,
		"Display immediately or drop; never queue")
	sendCmd.Flags().BoolVarP(&sendOpts.printID, "print-id", "p", false,
		"Print the assigned notification ID")
}

func runSend(cmd *cobra.Command, args []string) error {
	urgency, err := parseUrgency(sendOpts.urgency)
	if err != nil {
		return err
	}

	body := ""
	if len(args) > 1 {
		body = args[1]
	}

	hints := map[string]godbus.Variant{}
	if sendOpts.transient {
		hints["transient"] = godbus.MakeVariant(true)
	}

	id, err := dbus.Send(dbus.SendOptions{
		AppName:       sendOpts.appName,
		ReplacesID:    sendOpts.replacesID,
		Icon:          sendOpts.icon,
		Summary:       args[0],
		Body:          body,
		Urgency:       urgency,
		ExpireTimeout: sendOpts.timeout,
		Hints:         hints,
	})
	if err != nil {
		return err
	}

	if sendOpts.printID {
		fmt.Println(id)
	}
	return nil
}

func parseUrgency(s string) (int, error) {
	switch strings.ToLower(s) {
	case "low", "0":
		return model.UrgencyLow, nil
	case "normal", "1":
		return model.UrgencyNormal, nil
	case "critical", "2":
		return model.UrgencyCritical, nil
	default:
		return 0, fmt.Errorf("unknown urgency %q (want low, normal or critical)", s)
	}
}
