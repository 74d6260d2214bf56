package parse

import (
	"testing"
	"time"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/registry"
)

func testEntry(text string) model.Entry {
	return model.Entry{
		Date:    time.Date(2018, 4, 14, 0, 0, 0, 0, time.UTC),
		HasTime: true,
		Hour:    7, Minute: 32,
		RawText: text,
	}
}

func newTestExtractor() *Extractor {
	reg := registry.New([]model.SubstanceConfig{
		{Name: "Vitamin D3", Aliases: []string{"d3"}},
	})
	return NewExtractor(reg, nil)
}

func TestExtract_MultipleFragments(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("2000IU Vitamin D3 + 5g Creatine monohydrate + 200mg Magnesium (from citrate)"))

	if len(doses) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(doses))
	}

	d := doses[0]
	if d.Quantity.Value != 2000 || d.Quantity.Unit != "IU" || d.Quantity.Kind != model.QuantityExact {
		t.Errorf("dose 0 quantity = %+v, want 2000 IU exact", d.Quantity)
	}
	if d.Substance != "Vitamin D3" {
		t.Errorf("dose 0 substance = %q, want registry-canonical Vitamin D3", d.Substance)
	}

	d = doses[1]
	if d.Quantity.Value != 5 || d.Quantity.Unit != "g" {
		t.Errorf("dose 1 quantity = %+v, want 5 g", d.Quantity)
	}
	if d.SubstanceRaw != "Creatine monohydrate" {
		t.Errorf("dose 1 substance = %q", d.SubstanceRaw)
	}

	// Fragment splitting on "+" must not also split inside parens,
	// and the qualifier stays part of the substance text.
	d = doses[2]
	if d.SubstanceRaw != "Magnesium (from citrate)" {
		t.Errorf("dose 2 substance = %q, want parenthesized qualifier kept", d.SubstanceRaw)
	}
	if d.Quantity.Value != 0.2 || d.Quantity.Unit != "g" {
		t.Errorf("dose 2 quantity = %+v, want 200mg normalized to 0.2 g", d.Quantity)
	}
}

func TestExtract_ApproximateAndExact(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("~2dl Green tea + 10g Cocoa"))

	if len(doses) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(doses))
	}

	if doses[0].Quantity.Kind != model.QuantityApproximate {
		t.Errorf("dose 0 kind = %v, want approximate", doses[0].Quantity.Kind)
	}
	if doses[0].Quantity.Value != 0.2 || doses[0].Quantity.Unit != "l" {
		t.Errorf("dose 0 quantity = %+v, want 2dl normalized to 0.2 l", doses[0].Quantity)
	}
	if doses[0].Substance != "green tea" {
		t.Errorf("dose 0 substance = %q, want identity-canonicalized", doses[0].Substance)
	}

	if doses[1].Quantity.Kind != model.QuantityExact {
		t.Errorf("dose 1 kind = %v, want exact", doses[1].Quantity.Kind)
	}
	if doses[1].Quantity.Value != 10 || doses[1].Quantity.Unit != "g" {
		t.Errorf("dose 1 quantity = %+v, want 10 g", doses[1].Quantity)
	}
}

func TestExtract_JournalEntryYieldsNoDoses(t *testing.T) {
	x := newTestExtractor()
	if doses := x.Extract(testEntry("Started working on the log parser")); doses != nil {
		t.Errorf("journal entry yielded doses: %v", doses)
	}
}

func TestExtract_UnrecognizedUnitIsNotADose(t *testing.T) {
	x := newTestExtractor()

	// "tbsp" is not in the unit table: the fragment is not a dose.
	if doses := x.Extract(testEntry("2tbsp sugar")); doses != nil {
		t.Errorf("unrecognized unit treated as dose: %v", doses)
	}

	// When mixed with a valid fragment, the bad one folds into the comment.
	doses := x.Extract(testEntry("5g Creatine + 2tbsp sugar"))
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].Comment != "2tbsp sugar" {
		t.Errorf("comment = %q, want leftover fragment", doses[0].Comment)
	}
}

func TestExtract_UnitlessQuantity(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("30 situps"))

	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	q := doses[0].Quantity
	if q.Kind != model.QuantityUnitless || q.Raw != "30" || q.Value != 30 {
		t.Errorf("quantity = %+v, want unitless raw 30", q)
	}
	if doses[0].Substance != "situps" {
		t.Errorf("substance = %q, want situps", doses[0].Substance)
	}
}

func TestExtract_BareNumberIsNotADose(t *testing.T) {
	x := newTestExtractor()
	if doses := x.Extract(testEntry("42")); doses != nil {
		t.Errorf("bare number treated as dose: %v", doses)
	}
}

func TestExtract_OpaqueUnit(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("1x Multivitamin"))

	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	q := doses[0].Quantity
	if q.Unit != "x" || q.Value != 1 {
		t.Errorf("quantity = %+v, want 1 x kept opaque", q)
	}
}

func TestExtract_ROA(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("1x Otrivin intranasal"))

	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].SubstanceRaw != "Otrivin" {
		t.Errorf("substance = %q, want Otrivin", doses[0].SubstanceRaw)
	}
	if doses[0].ROA != "intranasal" {
		t.Errorf("roa = %q, want intranasal", doses[0].ROA)
	}
}

func TestExtract_ROAVariantsNormalized(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("10mg Something vaped"))
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].ROA != "vaporized" {
		t.Errorf("roa = %q, want vaporized", doses[0].ROA)
	}
}

func TestExtract_TimestampFromEntry(t *testing.T) {
	x := newTestExtractor()
	doses := x.Extract(testEntry("5g Creatine"))
	want := time.Date(2018, 4, 14, 7, 32, 0, 0, time.UTC)
	if len(doses) != 1 || !doses[0].Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", doses[0].Timestamp, want)
	}
}

func TestSplitFragments(t *testing.T) {
	got := splitFragments("2000IU Vitamin D3 + 5g Creatine + 200mg Magnesium (from citrate + extra)")
	if len(got) != 3 {
		t.Fatalf("expected 3 fragments, got %d: %v", len(got), got)
	}
	if got[2] != "200mg Magnesium (from citrate + extra)" {
		t.Errorf("fragment 2 = %q", got[2])
	}
}

func TestExtract_FractionAmounts(t *testing.T) {
	x := newTestExtractor()

	doses := x.Extract(testEntry("1/4cup Coffee"))
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d: %v", len(doses), doses)
	}
	d := doses[0]
	if d.Quantity.Value != 0.05 || d.Quantity.Unit != "l" {
		t.Errorf("quantity = %+v, want quarter cup normalized to 0.05 l", d.Quantity)
	}
	if d.SubstanceRaw != "Coffee" {
		t.Errorf("substance = %q, want Coffee", d.SubstanceRaw)
	}

	// A fraction without a unit stays a unitless amount with the raw text.
	doses = x.Extract(testEntry("1/2 Banana"))
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d: %v", len(doses), doses)
	}
	d = doses[0]
	if d.Quantity.Kind != model.QuantityUnitless || d.Quantity.Value != 0.5 || d.Quantity.Raw != "1/2" {
		t.Errorf("quantity = %+v, want unitless 0.5 with raw \"1/2\"", d.Quantity)
	}
}

func TestExtract_MalformedFractionIsNotADose(t *testing.T) {
	x := newTestExtractor()

	// Zero denominator: the fragment folds back into journal text.
	if doses := x.Extract(testEntry("1/0x Mystery")); doses != nil {
		t.Errorf("expected no doses for zero denominator, got %v", doses)
	}
}

func TestExtract_SubstanceMustBeSubstanceShaped(t *testing.T) {
	x := newTestExtractor()

	// A stray slash after the number must not be swallowed into the
	// substance name.
	if doses := x.Extract(testEntry("1/ Coffee")); doses != nil {
		t.Errorf("expected no doses for slash remainder, got %v", doses)
	}

	if doses := x.Extract(testEntry("5 -- dashes")); doses != nil {
		t.Errorf("expected no doses for non-substance remainder, got %v", doses)
	}
}
