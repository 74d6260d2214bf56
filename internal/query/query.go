// Package query filters and groups dose records for downstream consumers.
// Summation is honest by construction: quantities are totalled per unit
// symbol and never converted across units.
package query

import (
	"sort"
	"time"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/registry"
)

// Summary aggregates one substance's doses
type Summary struct {
	Substance    string             `json:"substance"`
	Count        int                `json:"count"`
	TotalsByUnit map[string]float64 `json:"totals_by_unit"` // unit symbol -> summed magnitude; "" for unitless
	First        time.Time          `json:"first"`
	Last         time.Time          `json:"last"`
}

// SubstanceCount pairs a canonical substance with its dose count
type SubstanceCount struct {
	Substance string `json:"substance"`
	Count     int    `json:"count"`
}

// FilterBySubstance keeps doses whose canonical substance matches any of the
// given names (registry-resolved, so alias spellings work as filters). An
// empty name list keeps everything.
func FilterBySubstance(doses []model.Dose, reg *registry.Registry, names []string) []model.Dose {
	if len(names) == 0 {
		return doses
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[reg.Resolve(n)] = true
	}
	var out []model.Dose
	for _, d := range doses {
		if want[d.Substance] {
			out = append(out, d)
		}
	}
	return out
}

// FilterByRange keeps doses with start <= timestamp <= end. Zero bounds are
// open on that side.
func FilterByRange(doses []model.Dose, start, end time.Time) []model.Dose {
	var out []model.Dose
	for _, d := range doses {
		if !start.IsZero() && d.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && d.Timestamp.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Summarize builds per-substance summaries: dose count, per-unit totals, and
// first/last timestamps. 2000 IU and 200 mg of the same substance end up
// under separate unit keys, never added together.
func Summarize(doses []model.Dose) map[string]Summary {
	out := make(map[string]Summary)
	for _, d := range doses {
		s, ok := out[d.Substance]
		if !ok {
			s = Summary{
				Substance:    d.Substance,
				TotalsByUnit: make(map[string]float64),
				First:        d.Timestamp,
				Last:         d.Timestamp,
			}
		}
		s.Count++
		s.TotalsByUnit[d.Quantity.Unit] += d.Quantity.Value
		if d.Timestamp.Before(s.First) {
			s.First = d.Timestamp
		}
		if d.Timestamp.After(s.Last) {
			s.Last = d.Timestamp
		}
		out[d.Substance] = s
	}
	return out
}

// Substances lists the distinct canonical substances observed, most frequent
// first (ties alphabetical for determinism).
func Substances(doses []model.Dose) []SubstanceCount {
	counts := make(map[string]int)
	for _, d := range doses {
		counts[d.Substance]++
	}
	out := make([]SubstanceCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SubstanceCount{Substance: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Substance < out[j].Substance
	})
	return out
}

// SortDoses orders doses by timestamp, stable on ties so parse order is
// preserved.
func SortDoses(doses []model.Dose) {
	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].Timestamp.Before(doses[j].Timestamp)
	})
}
