package cli

import "github.com/spf13/cobra"

var eventsJournal bool

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List extracted doses in timestamp order",
	Long: `List every dose extracted from the log, one per line, oldest first.
With --journal, list the entries that yielded no dose instead; nothing in
the log is ever discarded.

Example:
  doselog events --data journal.txt
  doselog events --substances caffeine --start 2018-04-01 --end 2018-05-01
  doselog events --journal
  doselog events --json`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	addFilterFlags(eventsCmd)
	eventsCmd.Flags().BoolVar(&eventsJournal, "journal", false, "list non-dose journal entries instead of doses")
}

func runEvents(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.reportWarnings()

	ds, err := a.loadDataset()
	if err != nil {
		return err
	}
	if eventsJournal {
		return a.renderer().Entries(ds.Journal)
	}
	doses, err := applyFilters(ds.Doses, a.reg)
	if err != nil {
		return err
	}
	return a.renderer().Doses(doses)
}
