package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doselog/doselog/internal/model"
	"github.com/doselog/doselog/internal/span"
)

var (
	spanDuration  time.Duration
	spanNormalize bool
	spanGroups    []string
)

// effectspanCmd represents the effectspan command
var effectspanCmd = &cobra.Command{
	Use:   "effectspan",
	Short: "Merged intervals of substance effect",
	Long: `Compute the stretches of time under a substance's effect. Each dose
opens an interval of the substance's configured duration; overlapping or
touching intervals of the same substance merge into one span.

Example:
  doselog effectspan --substances caffeine
  doselog effectspan --duration 6h --start 2018-04-01
  doselog effectspan --normalize`,
	RunE: runEffectspan,
}

// influenceCmd represents the influence command
var influenceCmd = &cobra.Command{
	Use:   "influence",
	Short: "Fraction of a time window covered by effect spans",
	Long: `Report how much of a window was spent under effect, as a fraction
of the window length. Requires --start and --end.

Example:
  doselog influence --substances caffeine --start 2018-04-14 --end 2018-04-15`,
	RunE: runInfluence,
}

func init() {
	rootCmd.AddCommand(effectspanCmd)
	rootCmd.AddCommand(influenceCmd)

	for _, cmd := range []*cobra.Command{effectspanCmd, influenceCmd} {
		addFilterFlags(cmd)
		cmd.Flags().DurationVar(&spanDuration, "duration", 0, "override effect duration for every dose (e.g. 5h30m)")
		cmd.Flags().BoolVar(&spanNormalize, "normalize", false, "fold configured substance groups before merging")
		cmd.Flags().StringArrayVar(&spanGroups, "group", nil, "ad-hoc group \"name=member1,member2\" (repeatable, implies --normalize)")
	}
}

func (a *app) computeSpans(doses []model.Dose) ([]model.EffectSpan, error) {
	opts := span.Options{
		Override: spanDuration,
		Fallback: a.cfg.Spans.Fallback,
	}

	if spanNormalize || len(spanGroups) > 0 {
		groups := make(map[string][]string, len(a.cfg.Groups)+len(spanGroups))
		if spanNormalize {
			for name, members := range a.cfg.Groups {
				groups[name] = members
			}
		}
		for _, g := range spanGroups {
			name, members, ok := strings.Cut(g, "=")
			if !ok || name == "" || members == "" {
				return nil, fmt.Errorf("malformed --group %q (want \"name=member1,member2\")", g)
			}
			groups[name] = strings.Split(members, ",")
		}
		opts.Groups = a.reg.BuildGroups(groups)
	}

	return span.NewEngine(a.reg).Compute(doses, opts), nil
}

func runEffectspan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.reportWarnings()

	ds, err := a.loadDataset()
	if err != nil {
		return err
	}
	doses, err := applyFilters(ds.Doses, a.reg)
	if err != nil {
		return err
	}
	spans, err := a.computeSpans(doses)
	if err != nil {
		return err
	}
	return a.renderer().Spans(spans)
}

func runInfluence(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.reportWarnings()

	w0, err := parseTimeFlag(filterStart)
	if err != nil {
		return err
	}
	w1, err := parseTimeFlag(filterEnd)
	if err != nil {
		return err
	}
	if w0.IsZero() || w1.IsZero() {
		return fmt.Errorf("influence requires both --start and --end")
	}

	ds, err := a.loadDataset()
	if err != nil {
		return err
	}
	doses, err := applyFilters(ds.Doses, a.reg)
	if err != nil {
		return err
	}

	spans, err := a.computeSpans(doses)
	if err != nil {
		return err
	}
	return a.renderer().Influence(w0, w1, span.Influence(spans, w0, w1))
}
