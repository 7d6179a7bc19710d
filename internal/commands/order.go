package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOrderCommand() *cobra.Command {
	var monthsCover, lookback int
	var group string
	var onlySuggested bool

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Show reorder suggestions after importing the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			defer p.close()

			if _, err := p.importPaths(cmd.Context(), nil); err != nil {
				return err
			}

			items, err := p.orders.OrderItems(monthsCover, lookback, group)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ITEM\tGROUP\tCLOSING\tAVG OUT/MO\tSUGGEST\tSUGGEST PKG")
			for _, it := range items {
				if onlySuggested && it.SuggestionBase <= 0 {
					continue
				}
				pkg := "-"
				if it.SuggestionPkg != nil {
					pkg = fmt.Sprintf("%g", *it.SuggestionPkg)
				}
				fmt.Fprintf(w, "%s\t%s\t%g %s\t%g\t%g %s\t%s\n",
					it.Name, it.Group, it.ClosingBase, it.BaseUnit,
					it.AvgMonthlyOutward, it.SuggestionBase, it.BaseUnit, pkg)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&monthsCover, "months-cover", 2, "months of demand the suggestion should cover")
	cmd.Flags().IntVar(&lookback, "lookback", 6, "months of history used for average outward")
	cmd.Flags().StringVar(&group, "group", "", "restrict to one stock group")
	cmd.Flags().BoolVar(&onlySuggested, "only-suggested", false, "hide items with nothing to order")

	return cmd
}
