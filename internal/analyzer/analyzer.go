package analyzer

import (
	"errors"
	"sort"
	"unicode/utf8"

	"event-dataset-processor/internal/models"
)

// ErrDivision is returned by the percentage computations on an empty row set.
// Callers that must not fail use Summarize instead.
var ErrDivision = errors.New("analyzer: division by zero on empty dataset")

// TopHours is the number of start-hour buckets reported by Analyze
const TopHours = 3

// Percentages returns the approved and rejected shares of rows in percent
func Percentages(rows []models.Row) (approvedPct, rejectedPct float64, err error) {
	total := len(rows)
	if total == 0 {
		return 0, 0, ErrDivision
	}

	approved, rejected := countActions(rows)
	approvedPct = float64(approved) / float64(total) * 100
	rejectedPct = float64(rejected) / float64(total) * 100
	return approvedPct, rejectedPct, nil
}

// Summarize computes the guarded summary. ApprovalRate is 0 for an empty set.
func Summarize(rows []models.Row) models.Summary {
	approved, rejected := countActions(rows)

	summary := models.Summary{
		Total:    len(rows),
		Approved: approved,
		Rejected: rejected,
	}
	if summary.Total > 0 {
		summary.ApprovalRate = float64(approved) / float64(summary.Total)
	}
	return summary
}

// Analyze computes the full descriptive statistics of rows.
// It fails with ErrDivision when rows is empty.
func Analyze(rows []models.Row) (*models.Analysis, error) {
	approvedPct, rejectedPct, err := Percentages(rows)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		Summary:          Summarize(rows),
		ApprovedPercent:  approvedPct,
		RejectedPercent:  rejectedPct,
		UniqueSenders:    uniqueSenders(rows),
		AvgBodyLength:    meanLength(rows, func(r models.Row) string { return r.EmailBody }),
		CommonEventHours: []models.HourCount{},
	}

	approved := approvedRows(rows)
	if len(approved) > 0 {
		analysis.AvgEventTitleLength = meanLength(approved, func(r models.Row) string { return r.EventTitle })
		analysis.CommonEventHours = MostCommonHours(approved, TopHours)
	}

	return analysis, nil
}

// MostCommonHours returns up to n hour-of-day buckets from the parsed event
// start times, most frequent first. Equal counts keep first-seen order.
// Rows without a start time are skipped.
func MostCommonHours(rows []models.Row, n int) []models.HourCount {
	counts := make(map[int]int)
	var order []int

	for _, row := range rows {
		if row.EventStartDateTime == nil {
			continue
		}
		hour := row.EventStartDateTime.Hour()
		if _, seen := counts[hour]; !seen {
			order = append(order, hour)
		}
		counts[hour]++
	}

	buckets := make([]models.HourCount, 0, len(order))
	for _, hour := range order {
		buckets = append(buckets, models.HourCount{Hour: hour, Count: counts[hour]})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	if n >= 0 && len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

func countActions(rows []models.Row) (approved, rejected int) {
	for _, row := range rows {
		switch row.Action {
		case models.ActionApproved:
			approved++
		case models.ActionRejected:
			rejected++
		}
	}
	return approved, rejected
}

func approvedRows(rows []models.Row) []models.Row {
	var out []models.Row
	for _, row := range rows {
		if row.IsApproved() {
			out = append(out, row)
		}
	}
	return out
}

func uniqueSenders(rows []models.Row) int {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.EmailSender] = struct{}{}
	}
	return len(seen)
}

// meanLength averages the rune count of field over rows
func meanLength(rows []models.Row, field func(models.Row) string) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0
	for _, row := range rows {
		total += utf8.RuneCountInString(field(row))
	}
	return float64(total) / float64(len(rows))
}
