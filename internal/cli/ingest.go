package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/ingest"
	"tally/ledger"
	"tally/market"
)

func newIngestCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <fills.jsonl ...>",
		Short: "Build the intent ledger from execution fill logs",
		Long: `Reads JSONL execution logs (plain, .gz or .xz), folds the fills into
one ledger row per trading intent, attributes realized P&L and stores the
result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.Log

			var events []ingest.Event
			for _, path := range args {
				r, err := ingest.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				fileEvents, err := ingest.ReadEvents(r, log)
				r.Close()
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				log.Info().Str("file", path).Int("fills", len(fileEvents)).Msg("read fill log")
				events = append(events, fileEvents...)
			}

			rows := ingest.NewBuilder(log).Build(events)

			resolver := market.NewResolver(rc.Cfg.MultiplierTable(), rc.Cfg.AliasTable(), log)
			calc := ledger.NewCalculator(resolver)

			computed := make([]ledger.Row, 0, len(rows))
			failed := 0
			for _, row := range rows {
				out, err := calc.ComputeIntent(row)
				if err != nil {
					// A bad row must not sink the rest of the ledger.
					failed++
					log.Error().Err(err).Str("intent", row.IntentID).Msg("skipping intent")
					continue
				}
				computed = append(computed, out)
			}

			store, err := openStore(rc)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveRows(computed); err != nil {
				return err
			}

			byStream := make(map[string][]ledger.Row)
			var streams []string
			for _, row := range computed {
				if _, ok := byStream[row.Stream]; !ok {
					streams = append(streams, row.Stream)
				}
				byStream[row.Stream] = append(byStream[row.Stream], row)
			}
			for _, stream := range streams {
				if err := store.SaveSummary(ledger.AggregateStream(byStream[stream], stream)); err != nil {
					return err
				}
			}

			log.Info().
				Int("fills", len(events)).
				Int("intents", len(computed)).
				Int("failed", failed).
				Int("streams", len(streams)).
				Msg("ledger updated")
			return nil
		},
	}

	return cmd
}

func openStore(rc *RootConfig) (ledger.Store, error) {
	switch rc.Cfg.Ledger.Store {
	case "sqlite":
		return ledger.NewSQLite(rc.Cfg.Ledger.DBPath)
	case "csv":
		return ledger.NewCSV(rc.Cfg.Ledger.IntentsFile, rc.Cfg.Ledger.SummariesFile)
	default:
		return nil, fmt.Errorf("unknown ledger store %q", rc.Cfg.Ledger.Store)
	}
}
