package main

import (
	"os"

	"venueops-sim/internal/journal"
)

// journalOptions selects the turn journal sinks for play.
type journalOptions struct {
	print  bool
	file   string
	dbPath string
}

// newJournal sets up the turn journal based on flags and env vars.
// It returns nil when no sink is configured, plus a cleanup function to
// close any resources.
func newJournal(opts journalOptions) (journal.Writer, func(), error) {
	var (
		writers []journal.Writer
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	if opts.print {
		writers = append(writers, journal.NewJSONStdoutWriter())
	}
	if opts.file != "" {
		fw, err := journal.NewFileWriter(opts.file)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		closers = append(closers, fw.Close)
	}
	if opts.dbPath != "" {
		sw, err := journal.NewSQLiteWriter(opts.dbPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writers = append(writers, sw)
		closers = append(closers, sw.Close)
	}
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
		gw, err := newGreptimeWriter(endpoint)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writers = append(writers, gw)
	}

	switch len(writers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return writers[0], cleanup, nil
	}
	return journal.NewMultiWriter(writers...), cleanup, nil
}

func newGreptimeWriter(endpoint string) (*journal.GreptimeDBWriter, error) {
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return journal.NewGreptimeDBWriter(endpoint, database, os.Getenv("GREPTIMEDB_TABLE"))
}

// newReplayWriter chooses the sink for replayed turns: GreptimeDB when
// configured and not print-only, otherwise STDOUT.
func newReplayWriter(printOnly, pretty bool, width int) (journal.Writer, error) {
	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); !printOnly && endpoint != "" {
		return newGreptimeWriter(endpoint)
	}
	if pretty {
		return journal.NewPrettyWriter(width), nil
	}
	return journal.NewJSONStdoutWriter(), nil
}
