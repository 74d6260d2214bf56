package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/query"
	"github.com/doselog/doselog/internal/registry"
)

var (
	filterSubstances []string
	filterStart      string
	filterEnd        string
)

// addFilterFlags registers the substance and time-range filters shared by
// the analysis commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&filterSubstances, "substances", nil, "only these substances (aliases resolve, comma-separated)")
	cmd.Flags().StringVar(&filterStart, "start", "", "only doses at or after this time (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringVar(&filterEnd, "end", "", "only doses at or before this time")
}

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", s)
}

// applyFilters narrows doses to the flagged substances and time range.
func applyFilters(doses []model.Dose, reg *registry.Registry) ([]model.Dose, error) {
	start, err := parseTimeFlag(filterStart)
	if err != nil {
		return nil, err
	}
	end, err := parseTimeFlag(filterEnd)
	if err != nil {
		return nil, err
	}

	doses = query.FilterBySubstance(doses, reg, filterSubstances)
	doses = query.FilterByRange(doses, start, end)
	return doses, nil
}
