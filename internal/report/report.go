// Package report turns a run's decision records into the downstream
// consumables: decision subsets, a clean-vs-flagged quality summary, and a
// small human-readable run report.
package report

import (
	"fmt"
	"sort"

	"github.com/veridata/go-entity-resolver/model"
)

// Summary is a compact rollup of one run, used by the run report and the
// API status responses.
type Summary struct {
	TotalRows      int                    `json:"total_rows"`
	DecisionCounts map[model.Decision]int `json:"decision_counts"`
	CleanRows      int                    `json:"clean_rows"`
	FlaggedRows    int                    `json:"flagged_rows"`
}

// Split partitions decision records into the matched, needs-review, and
// unmatched subsets, preserving relative order.
func Split(records []model.DecisionRecord) (matched, needsReview, unmatched []model.DecisionRecord) {
	matched = make([]model.DecisionRecord, 0)
	needsReview = make([]model.DecisionRecord, 0)
	unmatched = make([]model.DecisionRecord, 0)

	for _, rec := range records {
		switch rec.Decision {
		case model.DecisionMatched:
			matched = append(matched, rec)
		case model.DecisionNeedsReview:
			needsReview = append(needsReview, rec)
		default:
			unmatched = append(unmatched, rec)
		}
	}
	return matched, needsReview, unmatched
}

// Summarize computes the run rollup: total rows, per-decision counts, and
// clean vs flagged rows.
func Summarize(records []model.DecisionRecord) Summary {
	summary := Summary{
		TotalRows:      len(records),
		DecisionCounts: make(map[model.Decision]int),
	}
	for _, rec := range records {
		summary.DecisionCounts[rec.Decision]++
		if rec.Clean() {
			summary.CleanRows++
		} else {
			summary.FlaggedRows++
		}
	}
	return summary
}

// RenderReport formats the summary as the run report lines written to
// run_report.txt and printed to the console.
func RenderReport(summary Summary) []string {
	return []string{
		fmt.Sprintf("Total rows: %d", summary.TotalRows),
		fmt.Sprintf("Matched: %d", summary.DecisionCounts[model.DecisionMatched]),
		fmt.Sprintf("Needs Review: %d", summary.DecisionCounts[model.DecisionNeedsReview]),
		fmt.Sprintf("Unmatched: %d", summary.DecisionCounts[model.DecisionUnmatched]),
		fmt.Sprintf("Clean rows: %d", summary.CleanRows),
		fmt.Sprintf("Rows with flags: %d", summary.FlaggedRows),
	}
}

// QCRow is one line of the quality summary table: how many rows of a given
// decision are clean versus flagged.
type QCRow struct {
	Decision model.Decision `json:"decision"`
	Flag     string         `json:"flag"` // "clean" or "has_flags"
	Rows     int            `json:"rows"`
}

// QCSummary aggregates records into (decision, clean|has_flags) buckets,
// sorted by decision then flag for stable output.
func QCSummary(records []model.DecisionRecord) []QCRow {
	type key struct {
		decision model.Decision
		flag     string
	}
	counts := make(map[key]int)
	for _, rec := range records {
		flag := "has_flags"
		if rec.Clean() {
			flag = "clean"
		}
		counts[key{rec.Decision, flag}]++
	}

	rows := make([]QCRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, QCRow{Decision: k.decision, Flag: k.flag, Rows: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Decision != rows[j].Decision {
			return rows[i].Decision < rows[j].Decision
		}
		return rows[i].Flag < rows[j].Flag
	})
	return rows
}

// SortForExport orders records by decision label ascending and match score
// descending, the order used by the exported decision CSVs.
func SortForExport(records []model.DecisionRecord) []model.DecisionRecord {
	sorted := make([]model.DecisionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Decision != sorted[j].Decision {
			return sorted[i].Decision < sorted[j].Decision
		}
		return sorted[i].MatchScore > sorted[j].MatchScore
	})
	return sorted
}
