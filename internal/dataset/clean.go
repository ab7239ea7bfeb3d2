package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Canonical column names required after header normalization.
const (
	ColDate        = "date"
	ColPlatform    = "platform"
	ColSentiment   = "sentiment"
	ColLocation    = "location"
	ColEngagements = "engagements"
	ColMediaType   = "mediatype"
)

// RequiredColumns lists the canonical schema in display order.
var RequiredColumns = []string{ColDate, ColPlatform, ColSentiment, ColLocation, ColEngagements, ColMediaType}

// Record is one cleaned activity row. Every Record has a valid Date; rows
// whose date could not be parsed never become Records.
type Record struct {
	Date        time.Time
	Platform    string
	Sentiment   string
	Location    string
	Engagements int64
	MediaType   string
}

// CleanReport carries cleaning diagnostics back to the caller. Dropped rows
// are reported here, not as errors.
type CleanReport struct {
	OriginalRows int
	DroppedDates int
	FinalRows    int
}

// MissingColumnsError reports required columns absent after normalization.
// It is fatal to the current upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Clean validates the table against the canonical schema and produces typed
// records:
//   - all six required columns must be present, else *MissingColumnsError
//   - dates are parsed permissively; rows with unparseable dates are dropped
//     and counted in the report
//   - engagements parse as numbers truncated to integers; missing or
//     unparseable values become 0, negative values pass through unchanged
//
// An input that leaves zero records is a valid empty result.
func Clean(t *Table) ([]Record, CleanReport, error) {
	report := CleanReport{OriginalRows: len(t.Rows)}

	header := NormalizeHeader(t.Header)
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, report, &MissingColumnsError{Columns: missing}
	}

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		field := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		raw := field(ColDate)
		date, err := dateparse.ParseAny(raw)
		if raw == "" || err != nil {
			report.DroppedDates++
			continue
		}

		records = append(records, Record{
			Date:        date,
			Platform:    field(ColPlatform),
			Sentiment:   field(ColSentiment),
			Location:    field(ColLocation),
			Engagements: parseEngagements(field(ColEngagements)),
			MediaType:   field(ColMediaType),
		})
	}

	report.FinalRows = len(records)
	return records, report, nil
}

// parseEngagements coerces a raw engagement value to an integer count.
// Missing and unparseable values become 0; fractional values truncate.
func parseEngagements(s string) int64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}
