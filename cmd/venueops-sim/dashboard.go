package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"venueops-sim/internal/dashboard"
	"venueops-sim/internal/journal"
)

var dashboardOutDir string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard for the turn table",
	Long:  "dashboard renders a Grafana dashboard over the GreptimeDB turn table. GREPTIMEDB_DATASOURCE_UID must be set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := os.Getenv("GREPTIMEDB_TABLE")
		if table == "" {
			table = journal.DefaultTurnTable
		}
		if err := dashboard.Render(dashboardOutDir, table); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dashboardOutDir, dashboard.OutputFile))
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOutDir, "out", "build", "Output directory")
}
