package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"venueops-sim/internal/journal"
	"venueops-sim/internal/logging"
	"venueops-sim/internal/scenario"
	"venueops-sim/internal/scene"
	"venueops-sim/internal/venue"
)

var (
	autoConfigPath string
	autoScenario   string
	autoSeed       int64
	autoJournal    string
	autoJournalDB  string
	autoLogLevel   string
	autoWidth      int
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Run a scripted scenario without interaction",
	Long:  "autoplay runs a built-in or YAML scenario against the venue and prints every narrated turn.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(autoLogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		sc, err := resolveScenario(autoScenario)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(autoConfigPath, "")
		if err != nil {
			return err
		}

		jw, cleanup, err := newJournal(journalOptions{file: autoJournal, dbPath: autoJournalDB})
		if err != nil {
			return err
		}
		defer cleanup()
		// Turns always go to STDOUT; the other sinks are optional.
		jw = journal.NewMultiWriter(journal.NewPrettyWriter(autoWidth), jw)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logger)

		opts := []venue.Option{venue.WithJournal(jw)}
		if cmd.Flags().Changed("seed") {
			opts = append(opts, venue.WithRand(rand.New(rand.NewSource(autoSeed))))
		}
		sim := venue.New(cfg.Venue, scene.NewClient(cfg.Client), opts...)
		logger.Info("autoplay started", "scenario", sc.Name, "turns", sc.Len(), "session", sim.SessionID())

		if err := scenario.Run(ctx, sim, sc, nil); err != nil {
			return err
		}
		d := sim.Dashboard()
		fmt.Fprintf(cmd.OutOrStdout(), "Final: day=%d cash=%d reputation=%d staff=%d\n", d.Day, d.Cash, d.Reputation, len(d.Staff))
		return nil
	},
}

// resolveScenario accepts a built-in name or a path to a YAML file.
func resolveScenario(nameOrPath string) (*scenario.Scenario, error) {
	arcs := scenario.BuiltIn()
	if sc, ok := arcs[nameOrPath]; ok {
		return &sc, nil
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return scenario.Load(nameOrPath)
	}
	names := make([]string, 0, len(arcs))
	for n := range arcs {
		names = append(names, n)
	}
	slices.Sort(names)
	return nil, fmt.Errorf("unknown scenario %q (built-in: %s)", nameOrPath, strings.Join(names, ", "))
}

func init() {
	autoplayCmd.Flags().StringVar(&autoConfigPath, "config", "", "Path to venue configuration YAML")
	autoplayCmd.Flags().StringVar(&autoScenario, "scenario", "opening-night", "Built-in scenario name or path to scenario YAML")
	autoplayCmd.Flags().Int64Var(&autoSeed, "seed", 0, "Seed for reproducible applicants, revenue and daily drift")
	autoplayCmd.Flags().StringVar(&autoJournal, "journal", "", "Path to export narrated turns (JSONL)")
	autoplayCmd.Flags().StringVar(&autoJournalDB, "journal-db", "", "Path to a SQLite database for narrated turns")
	autoplayCmd.Flags().StringVar(&autoLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	autoplayCmd.Flags().IntVar(&autoWidth, "width", 80, "Wrap width for narration")
}
