package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/gst-invoicing/internal/application/billing"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invoice register (XLSX) or one invoice as a Tally voucher",
	Example: `  # Full register
  invoicectl export --out register.xlsx

  # Tally voucher of one invoice
  invoicectl export --invoice 6f1c... --out voucher.xml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("out", "", "output file (default: the download name)")
	exportCmd.Flags().String("invoice", "", "export this invoice as Tally voucher XML instead of the register")
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	invoiceID, _ := cmd.Flags().GetString("invoice")

	ctx := cmd.Context()
	svc, _, log, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	var (
		body     []byte
		filename string
	)
	if invoiceID != "" {
		body, filename, err = svc.Export.TallyVoucher(ctx, invoiceID)
	} else {
		body, err = svc.Export.Register(ctx)
		filename = billing.RegisterFilename
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info().Str("file", out).Int("bytes", len(body)).Msg("export written")
	return nil
}
