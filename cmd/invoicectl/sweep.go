package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark past-due invoices as overdue",
	Long: `Runs the overdue sweep once: every invoice that is not paid is re-evaluated
against its payments and due date, and status changes are saved.`,
	Example: `  invoicectl sweep --env-file .env`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, _, log, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()

		changed, err := svc.Sweeper.Sweep(ctx, svc.Settings.Now())
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		log.Info().Int("changed", changed).Msg("overdue sweep finished")
		fmt.Fprintf(cmd.OutOrStdout(), "%d invoice(s) updated\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
