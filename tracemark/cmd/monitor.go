package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tracemark/agent/config"
	"github.com/tracemark/agent/monitoring"
)

var monitorPort int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start the diagnostics server and open its dashboard.",
	RunE: func(_ *cobra.Command, _ []string) error {
		port := monitorPort
		if port == 0 {
			port = config.Load().MonitorPort
		}

		m := monitoring.NewMonitor().WithPortNumber(port)
		m.StartServer()

		if err := m.OpenDashboard(); err != nil {
			return err
		}

		select {}
	},
}

func init() {
	monitorCmd.Flags().IntVar(&monitorPort, "port", 0,
		"port of the diagnostics server (0 uses the configured default)")
	rootCmd.AddCommand(monitorCmd)
}
