package model

import (
	"time"

	"github.com/doselog/doselog/internal/unit"
)

// Entry is one parsed log line: a calendar date carried forward from the most
// recent day header, an optional clock time, and the free-text body.
// Entries are immutable once parsed.
type Entry struct {
	Date       time.Time `json:"date"`                  // day-header date (midnight UTC)
	HasTime    bool      `json:"has_time"`              // false for undated/header-only lines
	Hour       int       `json:"hour,omitempty"`
	Minute     int       `json:"minute,omitempty"`
	ApproxTime bool      `json:"approx_time,omitempty"` // "~HH:MM" prefix in source
	NextDay    bool      `json:"next_day,omitempty"`    // "+HH:MM" prefix: time belongs to the following day
	RawText    string    `json:"raw_text"`
	Source     string    `json:"source,omitempty"`      // opaque source reference (file:line)
}

// Timestamp combines the entry's date and clock time. Entries without a time
// resolve to the date itself (midnight).
func (e Entry) Timestamp() time.Time {
	ts := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), e.Hour, e.Minute, 0, 0, time.UTC)
	if e.NextDay {
		ts = ts.Add(24 * time.Hour)
	}
	return ts
}

// QuantityKind distinguishes how a quantity was written in the source
type QuantityKind string

const (
	QuantityExact       QuantityKind = "exact"       // plain numeric amount
	QuantityApproximate QuantityKind = "approximate" // marked with a leading "~"
	QuantityUnitless    QuantityKind = "unitless"    // numeric with no recognized unit
)

// Quantity is a measured (or unmeasured) amount. Convertible units are stored
// normalized to their base unit (g or l); opaque units (IU, x, ...) keep their
// symbol and raw magnitude.
type Quantity struct {
	Kind  QuantityKind `json:"kind"`
	Value float64      `json:"value,omitempty"` // magnitude in Unit
	Unit  string       `json:"unit,omitempty"`  // "g", "l", or an opaque symbol; empty when unitless
	Raw   string       `json:"raw,omitempty"`   // original text for unitless quantities
}

func (q Quantity) String() string {
	switch q.Kind {
	case QuantityUnitless:
		return q.Raw
	case QuantityApproximate:
		return "~" + unit.Format(q.Value, q.Unit)
	default:
		return unit.Format(q.Value, q.Unit)
	}
}

// Dose is a structured dose record extracted from an Entry. Never mutated
// after creation.
type Dose struct {
	Timestamp    time.Time `json:"timestamp"`
	SubstanceRaw string    `json:"substance_raw"`     // substance text as written
	Substance    string    `json:"substance"`         // registry-resolved canonical name
	Quantity     Quantity  `json:"quantity"`
	ROA          string    `json:"roa,omitempty"`     // route of administration, when noted
	Comment      string    `json:"comment,omitempty"` // residual text not consumed by dose fragments
	Entry        Entry     `json:"entry"`             // source entry, by value
}

func (d Dose) String() string {
	return d.Quantity.String() + " " + d.Substance
}
