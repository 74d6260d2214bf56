package cli

import (
	"github.com/spf13/cobra"

	"github.com/doselog/doselog/internal/query"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-substance dose counts and totals",
	Long: `Summarize the log per substance: dose count, totals per unit, and
first/last timestamps. Totals never mix units; 2000IU and 200mg of the
same substance stay separate.

Example:
  doselog summary --data journal.txt
  doselog summary --substances "vitamin d3" --start 2018-01-01`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
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
	return a.renderer().Summary(query.Summarize(doses))
}
