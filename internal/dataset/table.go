package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is an in-memory snapshot of an uploaded CSV: a header row plus data
// rows, all values untyped until cleaned. A table lives for one upload and is
// discarded when the next one arrives.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV parses a CSV byte stream with a header row into a Table. Rows
// shorter than the header are padded with empty values; structural CSV errors
// are returned to the caller and abort the upload.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file is empty")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("csv file has no columns")
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading csv row %d: %w", len(t.Rows)+2, err)
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
