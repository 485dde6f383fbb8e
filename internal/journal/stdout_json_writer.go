package journal

import (
	"encoding/json"
	"io"
	"os"
)

// JSONStdoutWriter prints turn rows as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// NewJSONWriter creates a JSONStdoutWriter writing to out.
func NewJSONWriter(out io.Writer) *JSONStdoutWriter {
	return &JSONStdoutWriter{out: out}
}

// WriteTurn implements Writer.
func (w *JSONStdoutWriter) WriteTurn(row TurnRow) error {
	return json.NewEncoder(w.out).Encode(row)
}
