package journal

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"
)

// ReplayLog replays turn rows from r to writer. A speed >0 scales the gaps
// between turn timestamps; speed <= 0 replays without delay.
func ReplayLog(r io.Reader, writer Writer, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row TurnRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteTurn(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a journal file and replays its rows.
func ReplayLogFile(path string, writer Writer, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
