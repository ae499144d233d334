// Package export reads and writes the CSV interchange format for activity
// sessions.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/surftober/surftober-server/internal/domain"
)

// Header is the canonical CSV column order. Import accepts any column
// order by matching header names; export always writes this one.
var Header = []string{
	"user", "date", "type", "duration", "location", "board", "notes",
	"no_wetsuit", "costume", "cleanup_items",
}

// flag renders a bool as the 0/1 convention the spreadsheet used.
func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WriteSessions writes sessions as CSV with a header row.
func WriteSessions(w io.Writer, sessions []domain.Session) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range sessions {
		record := []string{
			s.User,
			s.Date,
			string(s.Type),
			s.Duration,
			s.Location,
			s.Board,
			s.Notes,
			flag(s.NoWetsuit),
			flag(s.Costume),
			strconv.Itoa(s.CleanupItems),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write session %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSessions parses CSV rows into raw sessions for normalization. The
// first row must be a header; unknown columns are ignored and missing
// columns are left zero. Rows are returned in file order.
func ReadSessions(r io.Reader) ([]domain.RawSession, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may be ragged, pad with empty strings
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var raws []domain.RawSession
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(raws)+2, err)
		}

		raws = append(raws, domain.RawSession{
			User:         field(record, "user"),
			Date:         field(record, "date"),
			Type:         field(record, "type"),
			Duration:     field(record, "duration"),
			Location:     field(record, "location"),
			Board:        field(record, "board"),
			Notes:        field(record, "notes"),
			NoWetsuit:    field(record, "no_wetsuit"),
			Costume:      field(record, "costume"),
			CleanupItems: field(record, "cleanup_items"),
		})
	}

	return raws, nil
}
