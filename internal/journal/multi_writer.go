package journal

// MultiWriter fans turn rows out to multiple writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a new MultiWriter. Nil writers are skipped.
func NewMultiWriter(ws ...Writer) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteTurn sends a turn row to all writers.
func (mw *MultiWriter) WriteTurn(row TurnRow) error {
	for _, w := range mw.writers {
		if err := w.WriteTurn(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteTurns sends multiple rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteTurns(rows []TurnRow) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteTurns(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteTurn(r); err != nil {
				return err
			}
		}
	}
	return nil
}
