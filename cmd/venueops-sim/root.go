package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "venueops-sim",
	Short: "Venue manager simulation with generated scenes",
	Long:  "venueops-sim runs a turn-based venue management game. Every action is narrated by a chat-completion model with a matching image URL, falling back to local scenes when the model is unavailable.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(imageURLCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(autoplayCmd)
}
