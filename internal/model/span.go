package model

import "time"

// EffectSpan is a merged time interval during which a substance (or a
// normalized group) is considered active. Within one substance's span list,
// spans are non-overlapping and sorted by Start; Start <= End always holds.
type EffectSpan struct {
	Substance string    `json:"substance"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Doses     []Dose    `json:"doses"` // every dose that contributed, in timestamp order
}

// Duration returns the span length.
func (s EffectSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlap returns the length of the intersection between the span and the
// window [w0, w1). Spans outside the window contribute zero.
func (s EffectSpan) Overlap(w0, w1 time.Time) time.Duration {
	start := s.Start
	if w0.After(start) {
		start = w0
	}
	end := s.End
	if w1.Before(end) {
		end = w1
	}
	if !start.Before(end) {
		return 0
	}
	return end.Sub(start)
}
