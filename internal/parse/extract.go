package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/registry"
	"github.com/doselog/doselog/internal/unit"
)

// Extractor scans an Entry's text for dose fragments and resolves the
// substances against the registry.
type Extractor struct {
	reg *registry.Registry
	log *zap.Logger
}

// NewExtractor creates an extractor bound to a loaded registry.
func NewExtractor(reg *registry.Registry, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{reg: reg, log: logger}
}

// reDoseStart decides whether an entry body is dose notation at all: it must
// open with an optional "~" and a numeric literal. Anything else is a journal
// entry and contributes no doses.
var reDoseStart = regexp.MustCompile(`^~?[0-9]`)

// routes of administration recognized as a trailing token after the
// substance name.
var roaTokens = map[string]string{
	"oral":         "oral",
	"orally":       "oral",
	"buccal":       "buccal",
	"rectal":       "rectal",
	"sublingual":   "sublingual",
	"subl":         "sublingual",
	"subcutaneous": "subcutaneous",
	"subcut":       "subcutaneous",
	"intranasal":   "intranasal",
	"insufflated":  "insufflated",
	"insuff":       "insufflated",
	"smoked":       "smoked",
	"spliff":       "spliff",
	"inhaled":      "inhaled",
	"vaporized":    "vaporized",
	"vaped":        "vaporized",
	"vap":          "vaporized",
	"chewed":       "chewed",
}

// Extract returns the Dose records embedded in an entry. Fragments that do
// not parse as doses fold back into the shared comment; an entry whose body
// is not dose notation yields no doses and is retained as a journal record by
// the caller.
func (x *Extractor) Extract(e model.Entry) []model.Dose {
	text := firstLine(e.RawText)
	if !reDoseStart.MatchString(text) {
		return nil
	}

	var (
		doses    []model.Dose
		leftover []string
	)
	for _, frag := range splitFragments(text) {
		d, ok := x.parseFragment(frag)
		if !ok {
			leftover = append(leftover, frag)
			continue
		}
		d.Timestamp = e.Timestamp()
		d.Entry = e
		doses = append(doses, d)
	}

	if len(doses) == 0 {
		// No fragment parsed: the whole body stays journal text.
		return nil
	}

	comment := strings.Join(leftover, " + ")
	if rest := restLines(e.RawText); rest != "" {
		if comment != "" {
			comment += "\n"
		}
		comment += rest
	}
	for i := range doses {
		doses[i].Comment = comment
	}
	return doses
}

// parseFragment parses one "+"-separated fragment of the form
// [~]<number><unit> <substance> [roa]. The bool is false when the fragment is
// not a dose, in which case the text is preserved as comment by the caller.
func (x *Extractor) parseFragment(frag string) (model.Dose, bool) {
	s := strings.TrimSpace(frag)

	approx := strings.HasPrefix(s, "~")
	if approx {
		s = strings.TrimSpace(s[1:])
	}

	numText, rest := takeNumber(s)
	if numText == "" {
		return model.Dose{}, false
	}
	value, ok := parseAmount(numText)
	if !ok {
		return model.Dose{}, false
	}

	unitToken, rest := takeUnitToken(rest)
	substance, roa := splitROA(strings.TrimSpace(rest))
	if !substanceShaped(substance) {
		// A bare numeric with nothing substance-shaped after it is not a dose.
		return model.Dose{}, false
	}

	var q model.Quantity
	if unitToken == "" {
		raw := numText
		if approx {
			raw = "~" + raw
		}
		q = model.Quantity{Kind: model.QuantityUnitless, Value: value, Raw: raw}
	} else {
		u, ok := unit.Parse(unitToken)
		if !ok {
			x.log.Debug("unrecognized unit, keeping fragment as text",
				zap.String("unit", unitToken),
				zap.String("fragment", frag))
			return model.Dose{}, false
		}
		normValue, base := unit.Normalize(value, u)
		kind := model.QuantityExact
		if approx {
			kind = model.QuantityApproximate
		}
		q = model.Quantity{Kind: kind, Value: normValue, Unit: base.Symbol}
	}

	return model.Dose{
		SubstanceRaw: substance,
		Substance:    x.reg.Resolve(substance),
		Quantity:     q,
		ROA:          roa,
	}, true
}

// splitFragments splits on "+" at parenthesis depth zero, so qualifiers like
// "Magnesium (from citrate)" survive intact.
func splitFragments(s string) []string {
	var (
		frags   []string
		current strings.Builder
		depth   int
	)
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '+':
			if depth == 0 {
				frags = append(frags, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	if f := strings.TrimSpace(current.String()); f != "" {
		frags = append(frags, f)
	}
	return frags
}

// takeNumber consumes a leading integer, decimal, or fraction literal
// ("1", "0.5", "1/4").
func takeNumber(s string) (string, string) {
	i := 0
	seenDot := false
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !seenDot && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			seenDot = true
			i++
			continue
		}
		break
	}
	if i > 0 && !seenDot && i < len(s) && s[i] == '/' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i+1 {
			return s[:j], s[j:]
		}
	}
	return s[:i], s[i:]
}

// parseAmount evaluates a literal consumed by takeNumber. Fractions with a
// zero denominator are not amounts.
func parseAmount(s string) (float64, bool) {
	num, denom, isFraction := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !isFraction {
		return n, true
	}
	d, err := strconv.ParseFloat(denom, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// substanceShaped reports whether text can open a substance name: it must
// start with a letter or digit, so leftovers like "/4cup" never masquerade
// as a substance.
func substanceShaped(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// takeUnitToken consumes the letters immediately adjacent to the number.
// A space between number and the next word means there is no unit token.
func takeUnitToken(s string) (string, string) {
	i := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			break
		}
		i += len(string(r))
	}
	return s[:i], s[i:]
}

// splitROA strips a trailing route-of-administration token from the
// substance text, when present outside any parenthesized qualifier.
func splitROA(s string) (string, string) {
	idx := strings.LastIndexByte(s, ' ')
	if idx < 0 {
		return s, ""
	}
	last := s[idx+1:]
	if strings.ContainsAny(last, "()") {
		return s, ""
	}
	if roa, ok := roaTokens[strings.ToLower(last)]; ok {
		return strings.TrimSpace(s[:idx]), roa
	}
	return s, ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func restLines(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
