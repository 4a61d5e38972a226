package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/veridata/go-entity-resolver/internal/report"
	"github.com/veridata/go-entity-resolver/model"
)

const outputDirPerm = 0750

// decisionHeader is the column layout of the exported decision CSVs.
var decisionHeader = []string{
	"input_row_key", "input_company_name", "input_main_country_code", "input_main_city",
	"candidate_id", "candidate_name",
	"name_similarity", "country_match", "city_match", "freshness", "has_website", "match_score",
	"decision", "decision_notes", "qc_flags",
}

// ExportDecisions writes the decision CSVs for downstream consumption:
// the full matches_decisions.csv plus one file per decision subset and the
// qc_summary.csv table. Records are sorted by decision label then score
// descending, matching the report ordering.
func ExportDecisions(records []model.DecisionRecord, outputDir string) error {
	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	sorted := report.SortForExport(records)
	matched, needsReview, unmatched := report.Split(sorted)

	files := map[string][]model.DecisionRecord{
		"matches_decisions.csv": sorted,
		"matched_only.csv":      matched,
		"needs_review.csv":      needsReview,
		"unmatched.csv":         unmatched,
	}
	for name, recs := range files {
		if err := writeDecisionCSV(filepath.Join(outputDir, name), recs); err != nil {
			return err
		}
	}

	return writeQCSummaryCSV(filepath.Join(outputDir, "qc_summary.csv"), report.QCSummary(sorted))
}

// WriteRunReport writes the human-readable run report lines to
// run_report.txt in the output directory.
func WriteRunReport(summary report.Summary, outputDir string) error {
	if err := os.MkdirAll(outputDir, outputDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	lines := report.RenderReport(summary)
	path := filepath.Join(outputDir, "run_report.txt")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write run report %s: %w", path, err)
	}
	return nil
}

func writeDecisionCSV(path string, records []model.DecisionRecord) error {
	file, err := os.Create(path) // #nosec G304 -- path is built from the configured output directory
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(decisionHeader); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, rec := range records {
		row := []string{
			rec.InputRowKey, rec.InputName, rec.InputCountry, rec.InputCity,
			rec.CandidateID, rec.CandidateName,
			formatFloat(rec.Features.NameSimilarity),
			strconv.Itoa(rec.Features.CountryMatch),
			strconv.Itoa(rec.Features.CityMatch),
			formatFloat(rec.Features.Freshness),
			strconv.Itoa(rec.Features.WebsitePresent),
			formatFloat(rec.MatchScore),
			string(rec.Decision),
			rec.Notes,
			joinFlags(rec.Flags),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeQCSummaryCSV(path string, rows []report.QCRow) error {
	file, err := os.Create(path) // #nosec G304 -- path is built from the configured output directory
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"decision", "flag", "rows"}); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		record := []string{string(row.Decision), row.Flag, strconv.Itoa(row.Rows)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func joinFlags(flags []model.Flag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
