package cmd

import (
	"github.com/nderitu/tma/internal/api"
	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/telemetry"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the task management API server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		s := api.New()
		s.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
