// Package span converts chronological dose records into merged effect
// intervals per substance, and derives influence statistics over observation
// windows.
package span

import (
	"sort"
	"time"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/registry"
)

// DefaultFallback is the effect duration used when neither an explicit
// override nor a registry default is available. The concrete value is policy,
// not pharmacology; override it in configuration.
const DefaultFallback = 4 * time.Hour

// Options tunes one engine run
type Options struct {
	Override time.Duration     // explicit duration for every dose; zero means unset
	Fallback time.Duration     // duration when the registry has no default; zero means DefaultFallback
	Groups   map[string]string // normalization groups from Registry.BuildGroups; nil disables folding
}

// Engine derives effect spans using a loaded registry for canonicalization
// and default durations.
type Engine struct {
	reg *registry.Registry
}

// NewEngine creates an engine bound to a registry.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// candidate is one dose's tentative effect interval before merging.
type candidate struct {
	start, end time.Time
	doses      []model.Dose
}

// Compute groups doses by normalized substance and merges their candidate
// intervals into the minimal sorted list of non-overlapping spans. Input
// order does not matter: doses are re-sorted, stable on timestamp ties so
// parse order is preserved. The result is sorted by start time, then
// substance.
func (e *Engine) Compute(doses []model.Dose, opts Options) []model.EffectSpan {
	fallback := opts.Fallback
	if fallback <= 0 {
		fallback = DefaultFallback
	}

	groups := make(map[string][]model.Dose)
	for _, d := range doses {
		key := e.reg.Normalize(d.Substance, opts.Groups)
		groups[key] = append(groups[key], d)
	}

	var spans []model.EffectSpan
	for substance, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})

		candidates := make([]candidate, 0, len(group))
		for _, d := range group {
			dur := opts.Override
			if dur <= 0 {
				if def, ok := e.reg.DefaultSpan(d.Substance); ok {
					dur = def
				} else {
					dur = fallback
				}
			}
			candidates = append(candidates, candidate{
				start: d.Timestamp,
				end:   d.Timestamp.Add(dur),
				doses: []model.Dose{d},
			})
		}

		spans = append(spans, mergeCandidates(substance, candidates)...)
	}

	sort.Slice(spans, func(i, j int) bool {
		if !spans[i].Start.Equal(spans[j].Start) {
			return spans[i].Start.Before(spans[j].Start)
		}
		return spans[i].Substance < spans[j].Substance
	})
	return spans
}

// mergeCandidates sweeps time-ordered candidate intervals, merging whenever
// the next candidate starts at or before the current span's end. A later,
// shorter candidate fully inside the open span never shortens it: the span
// end is the maximum of all merged ends. Merging is idempotent.
func mergeCandidates(substance string, candidates []candidate) []model.EffectSpan {
	var spans []model.EffectSpan
	var cur *model.EffectSpan

	for _, c := range candidates {
		if cur != nil && !c.start.After(cur.End) {
			if c.end.After(cur.End) {
				cur.End = c.end
			}
			cur.Doses = append(cur.Doses, c.doses...)
			continue
		}
		if cur != nil {
			spans = append(spans, *cur)
		}
		cur = &model.EffectSpan{
			Substance: substance,
			Start:     c.start,
			End:       c.end,
			Doses:     append([]model.Dose(nil), c.doses...),
		}
	}
	if cur != nil {
		spans = append(spans, *cur)
	}
	return spans
}

// Influence returns the fraction of the window [w0, w1) covered by the given
// spans, computed by exact interval intersection and clamped to [0, 1].
// Spans of multiple substances should not be mixed unless they were computed
// as one normalized group.
func Influence(spans []model.EffectSpan, w0, w1 time.Time) float64 {
	if !w0.Before(w1) {
		return 0
	}
	var covered time.Duration
	for _, s := range spans {
		covered += s.Overlap(w0, w1)
	}
	ratio := float64(covered) / float64(w1.Sub(w0))
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
