// Package summary derives the five dashboard views from cleaned activity
// records. Every view is a pure function of its input: descending sorts are
// stable and break ties by first appearance in the records, so repeated runs
// over the same data produce identical output.
package summary

import (
	"sort"

	"mediascope/internal/dataset"
)

// View keys, one per chart.
const (
	KeySentiment = "sentiment"
	KeyTrend     = "trend"
	KeyPlatform  = "platform"
	KeyMediaType = "mediatype"
	KeyLocations = "locations"
)

// DefaultTopLocations is the ranking cutoff for the locations view.
const DefaultTopLocations = 5

// Row is one (label, value) pair of a view.
type Row struct {
	Label string
	Value int64
}

// View is a derived aggregate table backing one chart. Views are immutable
// once produced and are never merged back into the source records.
type View struct {
	Key       string
	Title     string
	LabelName string
	ValueName string
	Rows      []Row
}

// Build derives all five views. Empty input yields five empty views.
func Build(records []dataset.Record, topLocations int) []View {
	if topLocations <= 0 {
		topLocations = DefaultTopLocations
	}
	return []View{
		SentimentBreakdown(records),
		EngagementTrend(records),
		PlatformEngagements(records),
		MediaTypeMix(records),
		TopLocations(records, topLocations),
	}
}

// SentimentBreakdown counts records per sentiment, most frequent first.
func SentimentBreakdown(records []dataset.Record) View {
	return View{
		Key:       KeySentiment,
		Title:     "Sentiment Breakdown",
		LabelName: "Sentiment",
		ValueName: "Count",
		Rows: countBy(records, func(r dataset.Record) string {
			return r.Sentiment
		}),
	}
}

// EngagementTrend sums engagements per calendar day, ascending by day.
func EngagementTrend(records []dataset.Record) View {
	sums := make(map[string]int64)
	for _, r := range records {
		sums[r.Date.Format("2006-01-02")] += r.Engagements
	}
	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]Row, 0, len(days))
	for _, day := range days {
		rows = append(rows, Row{Label: day, Value: sums[day]})
	}
	return View{
		Key:       KeyTrend,
		Title:     "Engagement Trend Over Time",
		LabelName: "Date",
		ValueName: "Engagements",
		Rows:      rows,
	}
}

// PlatformEngagements sums engagements per platform, highest first.
func PlatformEngagements(records []dataset.Record) View {
	return View{
		Key:       KeyPlatform,
		Title:     "Platform Engagements",
		LabelName: "Platform",
		ValueName: "Engagements",
		Rows: sumBy(records, func(r dataset.Record) string {
			return r.Platform
		}),
	}
}

// MediaTypeMix counts records per media type, most frequent first.
func MediaTypeMix(records []dataset.Record) View {
	return View{
		Key:       KeyMediaType,
		Title:     "Media Type Mix",
		LabelName: "MediaType",
		ValueName: "Count",
		Rows: countBy(records, func(r dataset.Record) string {
			return r.MediaType
		}),
	}
}

// TopLocations sums engagements per location, highest first, keeping the
// first n entries.
func TopLocations(records []dataset.Record, n int) View {
	rows := sumBy(records, func(r dataset.Record) string {
		return r.Location
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return View{
		Key:       KeyLocations,
		Title:     "Top Locations by Engagements",
		LabelName: "Location",
		ValueName: "Engagements",
		Rows:      rows,
	}
}

// countBy counts records per key, descending by count. Keys are collected in
// encounter order so the stable sort breaks ties by first appearance.
func countBy(records []dataset.Record, key func(dataset.Record) string) []Row {
	counts := make(map[string]int64)
	var order []string
	for _, r := range records {
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	rows := make([]Row, 0, len(order))
	for _, k := range order {
		rows = append(rows, Row{Label: k, Value: counts[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}

// sumBy sums engagements per key, descending by sum, ties by first
// appearance.
func sumBy(records []dataset.Record, key func(dataset.Record) string) []Row {
	sums := make(map[string]int64)
	var order []string
	for _, r := range records {
		k := key(r)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += r.Engagements
	}
	rows := make([]Row, 0, len(order))
	for _, k := range order {
		rows = append(rows, Row{Label: k, Value: sums[k]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}
