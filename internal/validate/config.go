// Package validate checks a resolved configuration for mistakes that would
// silently distort analysis, like two substances claiming the same alias.
package validate

import (
	"fmt"
	"strings"
)

// Issue is one problem found in a configuration. Issues are advisory; the
// commands still run with the configuration as given.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Substance is the slice of configuration this package inspects. It mirrors
// the substance entries of the main config without importing it.
type Substance struct {
	Name    string
	Aliases []string
}

// Substances reports duplicate canonical names and aliases that collide
// across entries. Comparison is case-insensitive, matching how the registry
// folds names.
func Substances(entries []Substance) []Issue {
	var issues []Issue
	seen := make(map[string]string) // folded name -> owning entry

	claim := func(name, owner, field string) {
		folded := strings.ToLower(strings.TrimSpace(name))
		if folded == "" {
			issues = append(issues, Issue{Field: field, Message: "empty name"})
			return
		}
		if prev, ok := seen[folded]; ok && prev != owner {
			issues = append(issues, Issue{
				Field:   field,
				Message: fmt.Sprintf("%q already belongs to %q", name, prev),
			})
			return
		}
		seen[folded] = owner
	}

	for i, e := range entries {
		field := fmt.Sprintf("substances[%d]", i)
		claim(e.Name, e.Name, field)
		for _, alias := range e.Aliases {
			claim(alias, e.Name, field)
		}
	}
	return issues
}

// Groups reports group members that are not known substances. Unknown
// members still work (they fold to themselves) but usually indicate a typo.
func Groups(groups map[string][]string, entries []Substance) []Issue {
	known := make(map[string]bool)
	for _, e := range entries {
		known[strings.ToLower(e.Name)] = true
		for _, alias := range e.Aliases {
			known[strings.ToLower(alias)] = true
		}
	}

	var issues []Issue
	for group, members := range groups {
		for _, m := range members {
			if !known[strings.ToLower(m)] {
				issues = append(issues, Issue{
					Field:   "groups." + group,
					Message: fmt.Sprintf("member %q is not a configured substance or alias", m),
				})
			}
		}
	}
	return issues
}
