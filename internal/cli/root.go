// Package cli implements beaconctl, a client for a running monitor's status API.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	addr    string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "beaconctl",
	Short:        "Inspect and nudge a running beacon monitor",
	Long:         `beaconctl talks to the status API of a beacon process to show backend availability and request an immediate reconnection attempt.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080", "status API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
}
