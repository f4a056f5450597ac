package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	flushEvery = 200
	bufferSize = 32 * 1024
)

// Writer streams CSV rows, flushing periodically so large exports do not sit
// in memory.
type Writer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	pendingLines int
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriterSize(w, bufferSize)
	return &Writer{buf: buf, csv: csv.NewWriter(buf)}
}

// Write emits one record. Fields containing the delimiter, quotes or line
// breaks are quoted with inner quotes doubled.
func (w *Writer) Write(record []string) error {
	if w == nil || w.csv == nil {
		return fmt.Errorf("tabular: writer not initialised")
	}
	if err := w.csv.Write(record); err != nil {
		return err
	}
	w.pendingLines++
	if w.pendingLines >= flushEvery {
		return w.Flush()
	}
	return nil
}

// Flush pushes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil || w.csv == nil || w.buf == nil {
		return fmt.Errorf("tabular: writer not initialised")
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	w.pendingLines = 0
	return nil
}

// FormatFloat renders a number without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
