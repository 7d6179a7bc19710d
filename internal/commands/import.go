package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skpatro/tallystock/internal/core/domain"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import Tally XML exports (defaults to the inbox directory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPipeline()
			if err != nil {
				return err
			}
			defer p.close()

			logs, err := p.importPaths(cmd.Context(), args)
			if err != nil {
				return err
			}
			printImportLogs(logs)

			for _, l := range logs {
				if l.Status == domain.ImportError {
					return fmt.Errorf("%d of %d files failed", countStatus(logs, domain.ImportError), len(logs))
				}
			}
			return nil
		},
	}
	return cmd
}

func printImportLogs(logs []domain.ImportLog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tTYPE\tSTATUS\tVOUCHERS\tDUP\tMASTERS\tWARNINGS")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			l.FileName, l.FileType, l.Status,
			l.VouchersMerged, l.VouchersDuplicate, l.MastersProcessed, len(l.Warnings))
	}
	w.Flush()
}

func countStatus(logs []domain.ImportLog, status domain.ImportStatus) int {
	n := 0
	for _, l := range logs {
		if l.Status == status {
			n++
		}
	}
	return n
}
