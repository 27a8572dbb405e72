package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset <session-id>",
	Short: "Delete everything stored for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Reset(ctx, args[0]); err != nil {
			return eris.Wrapf(err, "reset session %s", args[0])
		}
		zap.L().Info("session reset", zap.String("session_id", args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
