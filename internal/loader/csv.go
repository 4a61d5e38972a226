// Package loader reads entity records from CSV files and writes the
// decision CSVs and run report. It is a thin collaborator around the core:
// all matching logic operates on the in-memory records it produces.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/veridata/go-entity-resolver/model"
)

// socialColumns are the social-presence URL columns recognized in reference
// CSVs, in the order they are collected onto the record.
var socialColumns = []string{
	"linkedin_url", "facebook_url", "twitter_url",
	"youtube_url", "instagram_url", "tiktok_url",
}

// dateLayouts are tried in order when parsing last-updated values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// rowReader indexes CSV rows by header name, so column order in the file
// does not matter.
type rowReader struct {
	columns map[string]int
}

func newRowReader(header []string) *rowReader {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return &rowReader{columns: columns}
}

func (rr *rowReader) get(row []string, column string) string {
	i, ok := rr.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// LoadInputRecords reads supplier intake rows from a CSV file. Rows missing
// identity fields are still returned; the orchestrator flags them as
// malformed input rather than dropping them here.
func LoadInputRecords(path string) ([]model.EntityRecord, error) {
	return loadCSV(path, func(rr *rowReader, row []string) model.EntityRecord {
		return model.EntityRecord{
			RowKey:  rr.get(row, "input_row_key"),
			Name:    rr.get(row, "input_company_name"),
			Country: rr.get(row, "input_main_country_code"),
			City:    rr.get(row, "input_main_city"),
		}
	})
}

// LoadReferenceRecords reads known-company records from a CSV file,
// preserving file order (order is the tie-break for candidate selection).
func LoadReferenceRecords(path string) ([]model.EntityRecord, error) {
	return loadCSV(path, func(rr *rowReader, row []string) model.EntityRecord {
		rec := model.EntityRecord{
			RowKey:      rr.get(row, "veridion_id"),
			Name:        rr.get(row, "company_name"),
			Country:     rr.get(row, "main_country_code"),
			City:        rr.get(row, "main_city"),
			Street:      rr.get(row, "main_street"),
			Postcode:    rr.get(row, "main_postcode"),
			CompanyType: rr.get(row, "company_type"),
			WebsiteURL:  rr.get(row, "website_url"),
			LastUpdated: parseDate(rr.get(row, "last_updated_at")),
		}
		for _, col := range socialColumns {
			if url := strings.TrimSpace(rr.get(row, col)); url != "" {
				rec.SocialURLs = append(rec.SocialURLs, url)
			}
		}
		return rec
	})
}

func loadCSV(path string, build func(*rowReader, []string) model.EntityRecord) ([]model.EntityRecord, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from configuration, not remote input
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as empty

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return []model.EntityRecord{}, nil
	}

	rr := newRowReader(rows[0])
	records := make([]model.EntityRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, build(rr, row))
	}
	return records, nil
}

// parseDate parses an ISO8601-like timestamp or plain date. Returns nil for
// empty or unparseable values; the caller treats those as maximally stale.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
