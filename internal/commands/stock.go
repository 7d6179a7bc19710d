package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newStockCommand() *cobra.Command {
	var from, to string
	var months int

	cmd := &cobra.Command{
		Use:   "stock <item>",
		Short: "Show an item's inventory ledger after importing the inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			defer p.close()

			if _, err := p.importPaths(cmd.Context(), nil); err != nil {
				return err
			}

			name := args[0]
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			if from != "" || to != "" {
				start, err := time.Parse("20060102", from)
				if err != nil {
					return fmt.Errorf("invalid --from (want YYYYMMDD): %q", from)
				}
				end, err := time.Parse("20060102", to)
				if err != nil {
					return fmt.Errorf("invalid --to (want YYYYMMDD): %q", to)
				}
				period, err := p.ledger.ItemPeriod(name, start, end)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "START\tEND\tOPENING\tINWARD\tOUTWARD\tCLOSING")
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\n",
					period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"),
					period.Opening, period.Inward, period.Outward, period.Closing)
				return nil
			}

			history, err := p.ledger.MonthlyHistory(name, months)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "MONTH\tOPENING\tINWARD\tOUTWARD\tCLOSING")
			for _, period := range history {
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\n",
					period.Start.Format("2006-01"),
					period.Opening, period.Inward, period.Outward, period.Closing)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start (YYYYMMDD)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYYMMDD)")
	cmd.Flags().IntVar(&months, "months", 6, "months of history when no range is given")

	return cmd
}
