package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/frahmantamala/workspace-booking/internal/booking"
	"github.com/frahmantamala/workspace-booking/internal/report"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	exportFrom   string
	exportTo     string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export active bookings as CSV",
	Long:  `Write every active booking with its space, floor and owner as CSV to a file or stdout`,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		return fmt.Errorf("failed to load booking timezone: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" && exportOutput != "-" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer f.Close()
		out = f
	}

	exporter := report.NewExporter(db, loc, booking.SystemClock{}, logger.L())
	n, err := exporter.WriteCSV(context.Background(), out, exportFrom, exportTo)
	if err != nil {
		return err
	}

	if exportOutput != "" && exportOutput != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d bookings to %s\n", n, exportOutput)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first booking date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last booking date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, stdout when empty")
}
