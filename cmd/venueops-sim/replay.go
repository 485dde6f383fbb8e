package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"venueops-sim/internal/journal"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPretty    bool
	replayPrintOnly bool
	replayWidth     int
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a turn journal",
	Long:  "replay feeds turn rows from a JSONL journal back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, err := newReplayWriter(replayPrintOnly, replayPretty, replayWidth)
		if err != nil {
			return err
		}
		return journal.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to turn journal (JSONL)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier (0 replays without delay)")
	replayCmd.Flags().BoolVar(&replayPretty, "pretty", false, "Render turns for a terminal instead of JSON")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print turns to STDOUT even when GreptimeDB is configured")
	replayCmd.Flags().IntVar(&replayWidth, "width", 80, "Wrap width for --pretty")
	replayCmd.MarkFlagRequired("input")
}
