package journal

import (
	"encoding/json"
	"os"
)

// FileWriter appends turn rows to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates or truncates path and returns a FileWriter for it.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteTurn logs a single turn row.
func (f *FileWriter) WriteTurn(row TurnRow) error {
	return f.enc.Encode(row)
}

// WriteTurns logs multiple turn rows.
func (f *FileWriter) WriteTurns(rows []TurnRow) error {
	for _, r := range rows {
		if err := f.WriteTurn(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}
