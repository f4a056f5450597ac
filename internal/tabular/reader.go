package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paintstock/paintstock/internal/shared"
)

// ErrMalformed wraps structural CSV failures. A batch that fails to parse is
// rejected as a whole.
var ErrMalformed = fmt.Errorf("tabular: malformed csv: %w", shared.ErrValidation)

const utf8BOM = "\ufeff"

// ParseError reports the line at which a CSV document stopped parsing.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tabular: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrMalformed, e.Err} }

func parseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// ReadCSV parses a header-row CSV document. Blank lines are skipped, cells are
// trimmed, and every record must have as many fields as the header.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, parseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			row[name] = TextValue(strings.TrimSpace(record[i]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
