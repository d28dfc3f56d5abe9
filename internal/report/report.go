package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"passcritic/internal/ingest"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders rep in the named format.
func Write(w io.Writer, format string, rep *ingest.Report, now time.Time) error {
	switch format {
	case FormatText, "":
		return Text(w, rep, now)
	case FormatJSON:
		return JSON(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Text writes a header line, the ranked table and a skip summary.
func Text(w io.Writer, rep *ingest.Report, now time.Time) error {
	fmt.Fprintf(w, "Catalogue has %s games as of %s (average user rating %.2f)\n\n",
		humanize.Comma(int64(rep.CatalogueSize)), humanize.RelTime(rep.GeneratedAt, now, "ago", "from now"), rep.AverageUserRating)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Title", "Avg", "Median", "Recommended", "Reviews", "User rating", "Released"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	for i, g := range rep.Top {
		r := g.Review
		released := "-"
		if !r.FirstReleased.IsZero() {
			released = r.FirstReleased.Format("2006-01-02")
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			g.ShortTitle,
			fmt.Sprintf("%.1f", r.AverageScore),
			strconv.Itoa(r.MedianScore),
			fmt.Sprintf("%.0f%%", r.PercentRecommended),
			humanize.Comma(int64(r.NumReviews)),
			fmt.Sprintf("%.1f (%s)", g.UserRating, humanize.Comma(int64(g.NUserRating))),
			released,
		})
	}
	table.Render()

	if len(rep.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped: %s\n", summarize(rep.Skipped))
	}
	if len(rep.Collisions) > 0 {
		titles := make([]string, 0, len(rep.Collisions))
		for title := range rep.Collisions {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		fmt.Fprintf(w, "Shared titles: %s\n", strings.Join(titles, ", "))
	}
	return nil
}

func JSON(w io.Writer, rep *ingest.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func summarize(counts map[string]int) string {
	reasons := make([]string, 0, len(counts))
	total := 0
	for reason, n := range counts {
		reasons = append(reasons, reason)
		total += n
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, counts[reason]))
	}
	return fmt.Sprintf("%d (%s)", total, strings.Join(parts, " "))
}
