package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tally/ledger"
)

func newReportCmd(rc *RootConfig) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report [stream ...]",
		Short: "Per-stream realized P&L summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rc.Cfg.Ledger.Store != "sqlite" {
				return fmt.Errorf("report requires the sqlite store (CSV is write-only)")
			}

			s, err := ledger.NewSQLite(rc.Cfg.Ledger.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()

			streams := args
			if len(streams) == 0 {
				streams, err = s.Streams()
				if err != nil {
					return err
				}
			}

			summaries := make([]ledger.Summary, 0, len(streams))
			for _, stream := range streams {
				rows, err := s.RowsByStream(stream)
				if err != nil {
					return err
				}
				summaries = append(summaries, ledger.AggregateStream(rows, stream))
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STREAM\tREALIZED\tCOSTS\tINTENTS\tCLOSED\tPARTIAL\tOPEN\tCONFIDENCE")
			for _, sum := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					sum.Stream,
					sum.RealizedPnL.StringFixed(2),
					sum.TotalCostsRealized.StringFixed(2),
					sum.IntentCount,
					sum.ClosedCount,
					sum.PartialCount,
					sum.OpenCount,
					sum.PnLConfidence,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit summaries as JSON")

	return cmd
}
