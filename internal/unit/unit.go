// Package unit models the closed set of dose units that appear in hand-typed
// logs: SI-prefixed mass and volume units, plus a handful of opaque symbols
// (IU, x, puffs, ...) that are tracked by symbol and never converted.
package unit

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies what a unit measures
type Kind int

const (
	KindMass   Kind = iota // grams and SI-prefixed variants
	KindVolume             // liters and SI-prefixed variants
	KindOpaque             // symbol-only units, compared by equality
)

func (k Kind) String() string {
	switch k {
	case KindMass:
		return "mass"
	case KindVolume:
		return "volume"
	default:
		return "opaque"
	}
}

// Unit is a resolved unit token
type Unit struct {
	Symbol string  // base symbol ("g", "l") or opaque symbol ("IU", "x", ...)
	Kind   Kind
	Factor float64 // multiplier to the base unit; 1 for base and opaque units
}

// siPrefixes maps an SI prefix to its factor relative to the base unit.
// "mc" and "μ" are accepted spellings of micro, as in the source logs.
var siPrefixes = map[string]float64{
	"":   1,
	"n":  1e-9,
	"u":  1e-6,
	"μ":  1e-6,
	"mc": 1e-6,
	"m":  1e-3,
	"c":  1e-2,
	"d":  1e-1,
}

// opaqueUnits are prefixless units kept as-is. The empty string maps
// plural/alias spellings onto one canonical symbol.
var opaqueUnits = map[string]string{
	"x":       "x",
	"IU":      "IU",
	"GDU":     "GDU",
	"B":       "B",
	"CFU":     "CFU",
	"serving": "serving",
	"puff":    "puff",
	"puffs":   "puff",
}

// Parse resolves a unit token against the dimensional-unit table. The bool is
// false when the token is not a recognized unit, in which case the caller
// should treat the surrounding fragment as plain text rather than a dose.
func Parse(token string) (Unit, bool) {
	if token == "" {
		return Unit{}, false
	}
	if sym, ok := opaqueUnits[token]; ok {
		return Unit{Symbol: sym, Kind: KindOpaque, Factor: 1}, true
	}
	// "cup" is volumetric in practice: defined as 2 dl.
	if token == "cup" {
		return Unit{Symbol: "l", Kind: KindVolume, Factor: 0.2}, true
	}

	kind := KindMass
	switch {
	case strings.HasSuffix(token, "g"):
	case strings.HasSuffix(token, "l"), strings.HasSuffix(token, "L"):
		kind = KindVolume
	default:
		return Unit{}, false
	}
	prefix := token[:len(token)-1]
	factor, ok := siPrefixes[prefix]
	if !ok {
		return Unit{}, false
	}
	sym := "g"
	if kind == KindVolume {
		sym = "l"
	}
	return Unit{Symbol: sym, Kind: kind, Factor: factor}, true
}

// Normalize converts a value in u to the base unit (g or l). Opaque units
// pass through unchanged.
func Normalize(value float64, u Unit) (float64, Unit) {
	if u.Kind == KindOpaque {
		return value, u
	}
	return value * u.Factor, Unit{Symbol: u.Symbol, Kind: u.Kind, Factor: 1}
}

// Format renders a base-unit amount with the most readable SI prefix,
// e.g. 0.1 g becomes "100mg" and 2e-4 g becomes "200ug". Opaque symbols are
// appended verbatim.
func Format(value float64, symbol string) string {
	if symbol != "g" && symbol != "l" {
		return formatNumber(value) + symbol
	}
	prefix, factor := bestPrefix(math.Abs(value))
	return formatNumber(value/factor) + prefix + symbol
}

func bestPrefix(n float64) (string, float64) {
	switch {
	case n == 0:
		return "", 1
	case n < 1e-6:
		// Everything below micro displays in nanograms so the smallest
		// parseable amounts survive the display rounding.
		return "n", 1e-9
	case n < 1e-3:
		return "u", 1e-6
	case n < 1:
		return "m", 1e-3
	default:
		return "", 1
	}
}

func formatNumber(f float64) string {
	rounded := math.Round(f*1e4) / 1e4
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
