// Package registry maps substance alias spellings onto canonical names and
// carries per-substance default effect durations. A Registry is constructed
// once from configuration and treated as read-only for the rest of the run;
// it is passed by reference into the extractor and the span engine.
package registry

import (
	"time"

	"golang.org/x/text/cases"

	"github.com/doselog/doselog/internal/model"
)

// Registry is an immutable alias and duration table
type Registry struct {
	aliases map[string]string        // folded alias -> canonical name
	spans   map[string]time.Duration // folded canonical name -> default span
}

// New builds a registry from configured substance entries. Duplicate aliases
// resolve to the last entry that declared them.
func New(entries []model.SubstanceConfig) *Registry {
	r := &Registry{
		aliases: make(map[string]string),
		spans:   make(map[string]time.Duration),
	}
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		r.aliases[fold(e.Name)] = e.Name
		for _, a := range e.Aliases {
			r.aliases[fold(a)] = e.Name
		}
		if e.DefaultSpan > 0 {
			r.spans[fold(e.Name)] = e.DefaultSpan
		}
	}
	return r
}

// Resolve returns the canonical name for a substance as written. Unknown
// names are not an error: they canonicalize to their case-folded spelling.
func (r *Registry) Resolve(name string) string {
	if canonical, ok := r.aliases[fold(name)]; ok {
		return canonical
	}
	return fold(name)
}

// DefaultSpan returns the configured default effect duration for a canonical
// substance name, if any.
func (r *Registry) DefaultSpan(canonical string) (time.Duration, bool) {
	d, ok := r.spans[fold(canonical)]
	return d, ok
}

// Normalize resolves a name and then applies run-specific group folding:
// groups maps a folded member name to the group label it collapses into
// (e.g. "hash" -> "weed" for one analysis run).
func (r *Registry) Normalize(name string, groups map[string]string) string {
	canonical := r.Resolve(name)
	if groups == nil {
		return canonical
	}
	if g, ok := groups[fold(canonical)]; ok {
		return g
	}
	return canonical
}

// BuildGroups flattens a group -> members mapping into the folded
// member -> group form consumed by Normalize. Members are resolved through
// the registry first, so an alias spelling in a group definition folds the
// whole canonical substance. The group label itself is also a member, so
// doses already recorded under the label stay in the group.
func (r *Registry) BuildGroups(groups map[string][]string) map[string]string {
	if len(groups) == 0 {
		return nil
	}
	out := make(map[string]string)
	for group, members := range groups {
		out[fold(r.Resolve(group))] = group
		for _, m := range members {
			out[fold(r.Resolve(m))] = group
		}
	}
	return out
}

// fold performs Unicode case folding, the comparison form used for every
// lookup key in the registry.
func fold(s string) string {
	return cases.Fold().String(s)
}
