package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"event-dataset-processor/internal/features"
	"event-dataset-processor/internal/models"
)

const rule = "=================================================="

// Options controls sample truncation
type Options struct {
	SubjectWidth int
	BodyWidth    int
}

// Reporter prints human-readable summaries for operators
type Reporter struct {
	w    io.Writer
	opts Options
}

// New creates a reporter writing to w
func New(w io.Writer, opts Options) *Reporter {
	if opts.SubjectWidth <= 0 {
		opts.SubjectWidth = 60
	}
	if opts.BodyWidth <= 0 {
		opts.BodyWidth = 100
	}
	return &Reporter{w: w, opts: opts}
}

// LoadBanner reports the entry count declared in the dataset metadata
func (r *Reporter) LoadBanner(doc *models.Document) {
	fmt.Fprintf(r.w, "Dataset loaded: %d entries\n", doc.Metadata.TotalEntries)
}

// Analysis prints the descriptive statistics
func (r *Reporter) Analysis(a *models.Analysis) {
	r.section("Dataset Analysis")

	fmt.Fprintf(r.w, "Total interactions: %d\n", a.Total)
	fmt.Fprintf(r.w, "Approved events: %d (%.1f%%)\n", a.Approved, a.ApprovedPercent)
	fmt.Fprintf(r.w, "Rejected events: %d (%.1f%%)\n", a.Rejected, a.RejectedPercent)

	fmt.Fprintf(r.w, "\nUnique senders: %d\n", a.UniqueSenders)
	fmt.Fprintf(r.w, "Average email body length: %.0f chars\n", a.AvgBodyLength)

	if a.Approved > 0 {
		fmt.Fprintf(r.w, "Average event title length: %.0f chars\n", a.AvgEventTitleLength)
		if len(a.CommonEventHours) > 0 {
			parts := make([]string, len(a.CommonEventHours))
			for i, hc := range a.CommonEventHours {
				parts[i] = fmt.Sprintf("%02d:00 (%d)", hc.Hour, hc.Count)
			}
			fmt.Fprintf(r.w, "Most common event hours: %s\n", strings.Join(parts, ", "))
		}
	}
}

// EmptyDataset prints the guarded summary when there is nothing to analyze
func (r *Reporter) EmptyDataset(s models.Summary) {
	r.section("Dataset Analysis")
	fmt.Fprintf(r.w, "Total interactions: %d\n", s.Total)
	fmt.Fprintf(r.w, "Approval rate: %.2f\n", s.ApprovalRate)
	fmt.Fprintln(r.w, "Dataset is empty, skipping statistics")
}

// Samples prints up to n approved and n rejected rows
func (r *Reporter) Samples(rows []models.Row, n int) {
	r.section(fmt.Sprintf("Sample Data (showing %d examples)", n))

	fmt.Fprintln(r.w, "\nAPPROVED Examples:")
	for _, row := range firstN(rows, models.ActionApproved, n) {
		fmt.Fprintf(r.w, "Subject: %s\n", Truncate(row.EmailSubject, r.opts.SubjectWidth))
		fmt.Fprintf(r.w, "From: %s\n", displaySender(row.EmailSender))
		fmt.Fprintf(r.w, "Event: %s\n", row.EventTitle)
		fmt.Fprintf(r.w, "Body snippet: %s\n", Truncate(row.EmailBody, r.opts.BodyWidth))
		fmt.Fprintln(r.w, rule[:30])
	}

	fmt.Fprintln(r.w, "\nREJECTED Examples:")
	for _, row := range firstN(rows, models.ActionRejected, n) {
		fmt.Fprintf(r.w, "Subject: %s\n", Truncate(row.EmailSubject, r.opts.SubjectWidth))
		fmt.Fprintf(r.w, "From: %s\n", displaySender(row.EmailSender))
		fmt.Fprintf(r.w, "Body snippet: %s\n", Truncate(row.EmailBody, r.opts.BodyWidth))
		fmt.Fprintln(r.w, rule[:30])
	}
}

// Features prints how often each heuristic fired and the busiest sender domains
func (r *Reporter) Features(rows []models.FeatureRow) {
	r.section("Extracting ML Features")

	var timeHits, dateHits int
	domains := make(map[string]int)
	for _, fr := range rows {
		if fr.HasTimeKeywords {
			timeHits++
		}
		if fr.HasDatePattern {
			dateHits++
		}
		if fr.SenderDomain != "" {
			domains[fr.SenderDomain]++
		}
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "feature\trows\n")
	fmt.Fprintf(tw, "has_time_keywords\t%d/%d\n", timeHits, len(rows))
	fmt.Fprintf(tw, "has_date_pattern\t%d/%d\n", dateHits, len(rows))
	tw.Flush()

	if len(domains) == 0 {
		return
	}
	fmt.Fprintln(r.w, "\nTop sender domains:")
	for _, d := range topDomains(domains, 5) {
		fmt.Fprintf(r.w, "  %s (%d)\n", d, domains[d])
	}
}

// Exported reports the written CSV path
func (r *Reporter) Exported(path string) {
	fmt.Fprintf(r.w, "\nTraining data exported to: %s\n", path)
	fmt.Fprintf(r.w, "Ready for ML training! Use: %s\n", path)
}

// Truncate shortens s to width runes, marking the cut with "..."
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width]) + "..."
}

func (r *Reporter) section(title string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n", title, rule)
}

func firstN(rows []models.Row, action string, n int) []models.Row {
	var out []models.Row
	for _, row := range rows {
		if len(out) >= n {
			break
		}
		if row.Action == action {
			out = append(out, row)
		}
	}
	return out
}

func displaySender(sender string) string {
	if addr, ok := features.SenderAddress(sender); ok {
		return addr
	}
	return sender
}

func topDomains(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for d := range counts {
		names = append(names, d)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
