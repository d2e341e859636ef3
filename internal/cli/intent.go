package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/ledger"
)

func newIntentCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "intent <intent_id>",
		Short: "Dump one computed ledger row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rc.Cfg.Ledger.Store != "sqlite" {
				return fmt.Errorf("intent lookup requires the sqlite store")
			}

			s, err := ledger.NewSQLite(rc.Cfg.Ledger.DBPath)
			if err != nil {
				return err
			}
			defer s.Close()

			row, err := s.GetIntent(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(row)
		},
	}
}
