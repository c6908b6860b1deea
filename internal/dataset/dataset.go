// Package dataset loads the static review dataset that feeds the traffic
// generator. The file is read once at startup and cached for the process
// lifetime; the cached rows are immutable and safe to share without locks.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/novametrics/reviewpulse/internal/domain"
)

// Column names expected in the dataset header.
const (
	columnText   = "Review Text"
	columnRating = "Rating"
)

// Dataset is an immutable in-memory sampling source of raw reviews.
type Dataset struct {
	rows []domain.RawReview
}

// Load reads the CSV dataset at path. Rows with an empty review text or an
// unparseable rating are dropped; only clean rows survive loading.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	textIdx, ratingIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case columnText:
			textIdx = i
		case columnRating:
			ratingIdx = i
		}
	}
	if textIdx < 0 || ratingIdx < 0 {
		return nil, fmt.Errorf("dataset missing required columns %q and %q", columnText, columnRating)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset rows: %w", err)
	}

	rows := make([]domain.RawReview, 0, len(records))
	for _, rec := range records {
		if textIdx >= len(rec) || ratingIdx >= len(rec) {
			continue
		}
		text := strings.TrimSpace(rec[textIdx])
		if text == "" {
			continue
		}
		rating, ok := parseRating(rec[ratingIdx])
		if !ok {
			continue
		}
		rows = append(rows, domain.RawReview{Text: text, Rating: rating})
	}

	return &Dataset{rows: rows}, nil
}

// FromRows builds a dataset from already-clean rows. Used by tests and the
// simulator's in-memory fixtures.
func FromRows(rows []domain.RawReview) *Dataset {
	return &Dataset{rows: rows}
}

// Len returns the number of usable rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Sample draws one row uniformly at random. Panics on an empty dataset;
// callers must check Len first (the traffic generator treats an empty source
// as a precondition violation and never starts).
func (d *Dataset) Sample() domain.RawReview {
	return d.rows[rand.IntN(len(d.rows))]
}

// parseRating extracts the numeric rating from its textual encoding, e.g.
// "Rating 4" -> 4. The value is the second whitespace-delimited token;
// anything else is unparseable and the row is dropped.
func parseRating(raw string) (int, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
