package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/taxonomist/internal/engine"
	"github.com/Veraticus/taxonomist/internal/feed"
)

// RenderReport formats a batch run report for the terminal.
func RenderReport(report *engine.Report) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Loaded\t%d\n", report.Loaded)
	fmt.Fprintf(w, "Updated\t%d\n", report.Updated)
	if report.Procedure == engine.ProcedureClassify {
		fmt.Fprintf(w, "Auto-approved\t%d\n", report.AutoApproved)
	}
	fmt.Fprintf(w, "Skipped\t%d\n", report.Skipped)
	for _, reason := range sortedReasons(report.SkipReasons) {
		fmt.Fprintf(w, "  %s\t%d\n", reason, report.SkipReasons[reason])
	}
	fmt.Fprintf(w, "Threshold\t%.2f\n", report.Threshold)
	fmt.Fprintf(w, "Rules\t%d\n", report.Rules)
	_ = w.Flush()

	content := strings.TrimRight(b.String(), "\n")
	content += "\n" + SubtleStyle.Render(fmt.Sprintf("run %s in %s", report.RunID, report.Duration.Round(1e6)))
	if report.Failed() {
		content += "\n" + FormatError(report.Err)
	}

	return RenderBox(reportTitle(report), content)
}

// RenderIngestReport formats a feed ingestion report.
func RenderIngestReport(report *feed.Report) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, TableHeaderStyle.Render("CHANNEL")+"\t"+TableHeaderStyle.Render("ITEMS")+"\t"+
		TableHeaderStyle.Render("NEW")+"\t"+TableHeaderStyle.Render("FILLED"))
	for _, ch := range report.Channels {
		if ch.Error != "" {
			fmt.Fprintf(w, "%s\t%s\t\t\n", ch.Name, ErrorStyle.Render("error"))
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", ch.Name, ch.Items, ch.Inserted, ch.Filled)
	}
	_ = w.Flush()

	summary := fmt.Sprintf("%d items, %d new, %d filled", report.Items, report.Inserted, report.Filled)
	content := strings.TrimRight(b.String(), "\n") + "\n" + BoldStyle.Render(summary)
	if report.Failed > 0 {
		content += "\n" + FormatWarning(fmt.Sprintf("%d channel(s) could not be fetched", report.Failed))
	}
	return RenderBox(FeedIcon+" Feed ingestion", content)
}

func reportTitle(report *engine.Report) string {
	title := ChartIcon + " Classification"
	if report.Procedure == engine.ProcedureBackfill {
		title = ChartIcon + " Subcategory backfill"
	}
	if report.DryRun {
		title += " (dry run)"
	}
	return title
}

func sortedReasons(reasons map[engine.SkipReason]int) []engine.SkipReason {
	out := make([]engine.SkipReason, 0, len(reasons))
	for reason := range reasons {
		out = append(out, reason)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
