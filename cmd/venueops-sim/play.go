package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"venueops-sim/internal/admin"
	"venueops-sim/internal/console"
	"venueops-sim/internal/journal"
	"venueops-sim/internal/logging"
	"venueops-sim/internal/scene"
	"venueops-sim/internal/tui"
	"venueops-sim/internal/venue"
)

var (
	playConfigPath   string
	playSchemaPath   string
	playTUI          bool
	playSeed         int64
	playJournal      string
	playJournalDB    string
	playPrintJournal bool
	playMetricsAddr  string
	playLogLevel     string
	playLogFile      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the venue manager simulation",
	Long:  "play starts the interactive game on the terminal, either as a plain menu loop or as a full-screen TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
		if playTUI && !stdinTTY {
			return errors.New("--tui requires an interactive terminal")
		}

		level, err := logging.ParseLevel(playLogLevel)
		if err != nil {
			return err
		}
		var logOut io.Writer = os.Stderr
		switch {
		case playLogFile != "":
			f, err := os.OpenFile(playLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			logOut = f
		case playTUI:
			logOut = io.Discard
		}
		logger := logging.NewWithWriter(logOut, level)
		slog.SetDefault(logger)

		cfg, err := loadConfig(playConfigPath, playSchemaPath)
		if err != nil {
			return err
		}
		if cfg.Client.APIKey == "" {
			logger.Info("No POLLINATIONS_API_KEY set. Running with online attempt + local fallback mode.")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logger)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		client := scene.NewClient(cfg.Client, scene.WithMetrics(scene.NewMetrics(reg)))
		jw, cleanup, err := newJournal(journalOptions{print: playPrintJournal, file: playJournal, dbPath: playJournalDB})
		if err != nil {
			return err
		}
		defer cleanup()

		if playMetricsAddr != "" {
			recent := admin.NewRecentTurns(0)
			jw = journal.NewMultiWriter(jw, recent)
			srv := admin.NewServer(reg, recent)
			go func() {
				logger.Info("admin endpoints listening", "addr", playMetricsAddr)
				if err := srv.Start(ctx, playMetricsAddr); err != nil {
					logger.Error("admin server failed", "err", err)
				}
			}()
		}

		opts := []venue.Option{}
		if jw != nil {
			opts = append(opts, venue.WithJournal(jw))
		}
		if cmd.Flags().Changed("seed") {
			opts = append(opts, venue.WithRand(rand.New(rand.NewSource(playSeed))))
		}
		sim := venue.New(cfg.Venue, client, opts...)
		logger.Debug("session started", "session", sim.SessionID(), "model", cfg.Client.TextModel, "tui", playTUI)

		if playTUI {
			return tui.Run(ctx, sim)
		}
		return runConsole(ctx, sim)
	},
}

// runConsole runs the menu loop until it ends or ctx is cancelled. A turn in
// flight is narrated and journaled before it returns, so the deferred journal
// cleanup never races a write.
func runConsole(ctx context.Context, sim *venue.Simulation) error {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return console.New(sim, os.Stdin, os.Stdout, width).Run(ctx)
}

func init() {
	playCmd.Flags().StringVar(&playConfigPath, "config", "", "Path to venue configuration YAML (defaults built in)")
	playCmd.Flags().StringVar(&playSchemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	playCmd.Flags().BoolVar(&playTUI, "tui", false, "Use the full-screen terminal UI")
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "Seed for reproducible applicants, revenue and daily drift")
	playCmd.Flags().StringVar(&playJournal, "journal", "", "Path to export narrated turns (JSONL)")
	playCmd.Flags().StringVar(&playJournalDB, "journal-db", "", "Path to a SQLite database for narrated turns")
	playCmd.Flags().BoolVar(&playPrintJournal, "print-journal", false, "Print narrated turns to STDOUT as JSON")
	playCmd.Flags().StringVar(&playMetricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /turns on this address (e.g. :9090)")
	playCmd.Flags().StringVar(&playLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	playCmd.Flags().StringVar(&playLogFile, "log-file", "", "Write logs to this file instead of STDERR")
}
