package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/query"
	"github.com/doselog/doselog/internal/unit"
)

// Renderer writes command results as human-readable text or JSON.
type Renderer struct {
	out  io.Writer
	json bool
}

func NewRenderer(out io.Writer, asJSON bool) *Renderer {
	return &Renderer{out: out, json: asJSON}
}

const timestampLayout = "2006-01-02 15:04"

// Doses writes one line per dose in timestamp order.
func (r *Renderer) Doses(doses []model.Dose) error {
	if r.json {
		return r.renderJSON(doses)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, d := range doses {
		line := d.Quantity.String() + " " + d.Substance
		if d.ROA != "" {
			line += " " + d.ROA
		}
		if d.Comment != "" {
			line += "\t# " + firstCommentLine(d.Comment)
		}
		fmt.Fprintf(w, "%s\t%s\n", d.Timestamp.Format(timestampLayout), line)
	}
	return w.Flush()
}

// Entries writes raw log entries, one line each, with continuations folded
// onto the first line.
func (r *Renderer) Entries(entries []model.Entry) error {
	if r.json {
		return r.renderJSON(entries)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Timestamp().Format(timestampLayout), firstCommentLine(e.RawText))
	}
	return w.Flush()
}

// Summary writes per-substance totals, counts, and first/last timestamps.
func (r *Renderer) Summary(summaries map[string]query.Summary) error {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	if r.json {
		ordered := make([]query.Summary, 0, len(names))
		for _, name := range names {
			ordered = append(ordered, summaries[name])
		}
		return r.renderJSON(ordered)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "substance\tcount\ttotal\tfirst\tlast")
	for _, name := range names {
		s := summaries[name]
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			s.Substance, s.Count, formatTotals(s.TotalsByUnit),
			s.First.Format(timestampLayout), s.Last.Format(timestampLayout))
	}
	return w.Flush()
}

// Substances writes substance names with dose counts, most common first.
func (r *Renderer) Substances(counts []query.SubstanceCount) error {
	if r.json {
		return r.renderJSON(counts)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.Substance, c.Count)
	}
	return w.Flush()
}

// Spans writes merged effect spans with their duration and dose count.
func (r *Renderer) Spans(spans []model.EffectSpan) error {
	if r.json {
		return r.renderJSON(spans)
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, s := range spans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d doses\n",
			s.Start.Format(timestampLayout), s.End.Format(timestampLayout),
			s.Duration().Round(time.Minute), s.Substance, len(s.Doses))
	}
	return w.Flush()
}

// Influence writes the covered fraction of a window.
func (r *Renderer) Influence(w0, w1 time.Time, fraction float64) error {
	if r.json {
		return r.renderJSON(map[string]any{
			"start":     w0,
			"end":       w1,
			"influence": fraction,
		})
	}
	_, err := fmt.Fprintf(r.out, "%.1f%% of %s to %s\n",
		fraction*100, w0.Format(timestampLayout), w1.Format(timestampLayout))
	return err
}

func (r *Renderer) renderJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTotals(totals map[string]float64) string {
	if len(totals) == 0 {
		return "-"
	}
	units := make([]string, 0, len(totals))
	for u := range totals {
		units = append(units, u)
	}
	sort.Strings(units)

	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, unit.Format(totals[u], u))
	}
	return strings.Join(parts, ", ")
}

func firstCommentLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
