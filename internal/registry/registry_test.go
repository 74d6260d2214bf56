package registry

import (
	"testing"
	"time"

	"github.com/doselog/doselog/internal/model"
)

func testRegistry() *Registry {
	return New([]model.SubstanceConfig{
		{Name: "Caffeine", Aliases: []string{"coffee", "espresso"}, DefaultSpan: 5 * time.Hour},
		{Name: "Cannabis", Aliases: []string{"weed"}},
	})
}

func TestResolve_Alias(t *testing.T) {
	r := testRegistry()

	for _, alias := range []string{"coffee", "Coffee", "ESPRESSO", "caffeine"} {
		if got := r.Resolve(alias); got != "Caffeine" {
			t.Errorf("Resolve(%q) = %q, want Caffeine", alias, got)
		}
	}
}

func TestResolve_UnknownIsIdentity(t *testing.T) {
	r := testRegistry()

	if got := r.Resolve("Green Tea"); got != "green tea" {
		t.Errorf("Resolve(Green Tea) = %q, want case-folded identity", got)
	}
}

func TestDefaultSpan(t *testing.T) {
	r := testRegistry()

	d, ok := r.DefaultSpan("Caffeine")
	if !ok || d != 5*time.Hour {
		t.Errorf("DefaultSpan(Caffeine) = %v, %v; want 5h, true", d, ok)
	}
	if _, ok := r.DefaultSpan("Cannabis"); ok {
		t.Error("DefaultSpan(Cannabis) should be absent")
	}
	if _, ok := r.DefaultSpan("nosuch"); ok {
		t.Error("DefaultSpan(nosuch) should be absent")
	}
}

func TestNormalize_Groups(t *testing.T) {
	r := testRegistry()
	groups := r.BuildGroups(map[string][]string{
		"weed": {"hash", "cannabis oil"},
	})

	for _, name := range []string{"hash", "Cannabis Oil", "weed"} {
		if got := r.Normalize(name, groups); got != "weed" {
			t.Errorf("Normalize(%q) = %q, want weed", name, got)
		}
	}

	// A substance outside the group is untouched
	if got := r.Normalize("coffee", groups); got != "Caffeine" {
		t.Errorf("Normalize(coffee) = %q, want Caffeine", got)
	}
}

func TestNormalize_NilGroups(t *testing.T) {
	r := testRegistry()
	if got := r.Normalize("coffee", nil); got != "Caffeine" {
		t.Errorf("Normalize(coffee, nil) = %q, want Caffeine", got)
	}
}
