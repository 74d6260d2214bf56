package cli

import (
	"github.com/spf13/cobra"

	"github.com/doselog/doselog/internal/query"
)

// substancesCmd represents the substances command
var substancesCmd = &cobra.Command{
	Use:   "substances",
	Short: "List distinct substances, most frequent first",
	RunE:  runSubstances,
}

func init() {
	rootCmd.AddCommand(substancesCmd)
	addFilterFlags(substancesCmd)
}

func runSubstances(cmd *cobra.Command, args []string) error {
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
	return a.renderer().Substances(query.Substances(doses))
}
