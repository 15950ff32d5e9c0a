package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/su1ph3r/auditeval/internal/history"
)

// HistoryOptions controls run history output
type HistoryOptions struct {
	Last        int // number of most recent runs shown; <=0 shows all
	StallWindow int // previous runs compared for stall detection; <=0 disables
	NoColor     bool
}

// WriteHistory writes a table of recorded runs followed by trend notes
func WriteHistory(w io.Writer, h *history.History, opts HistoryOptions) {
	p := painter{noColor: opts.NoColor}

	if len(h.Runs) == 0 {
		fmt.Fprintf(w, "No runs recorded.\n")
		return
	}

	fmt.Fprintf(w, "%-20s %-10s %6s %10s %8s %6s %6s\n",
		"Timestamp", "Version", "Bench", "Recall", "Extra", "FP", "Grade")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", ruleWidth))
	for _, run := range h.Last(opts.Last) {
		ts := run.Timestamp
		if t := run.Time(); !t.IsZero() {
			ts = t.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-20s %-10s %6d %10s %8d %6d %s\n",
			TruncateString(ts, 20), TruncateString(run.SkillVersion, 10), run.Benchmarks,
			Percent(run.Recall), run.ExtraFindings, run.FalsePositives,
			p.paint(GradeColor(run.Grade), fmt.Sprintf("%6s", run.Grade)))
	}
	fmt.Fprintf(w, "\n")

	if d, ok := h.Delta(); ok {
		trend := p.paint(color.New(color.FgYellow), "unchanged")
		switch {
		case d.Recall > 1e-9:
			trend = p.paint(color.New(color.FgGreen), "up "+Percent(d.Recall))
		case d.Recall < -1e-9:
			trend = p.paint(color.New(color.FgRed), "down "+Percent(-d.Recall))
		}
		fmt.Fprintf(w, "Trend: recall %s since previous run (%s -> %s, FP %+d, extra %+d)\n",
			trend, d.FromGrade, d.ToGrade, d.FalsePositives, d.ExtraFindings)
	}

	latest, _ := h.Latest()
	if history.IsConverged(latest) {
		fmt.Fprintf(w, "%s\n", p.paint(color.New(color.FgGreen, color.Bold), "Converged: every known vulnerability found with no false positives"))
	} else if opts.StallWindow > 0 && h.IsStalled(opts.StallWindow) {
		fmt.Fprintf(w, "%s\n", p.paint(color.New(color.FgYellow), fmt.Sprintf("Stalled: recall unchanged over the last %d runs", opts.StallWindow+1)))
	}
}
