package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/export"
	"github.com/sells-group/lead-intel/internal/geoanalysis"
	"github.com/sells-group/lead-intel/internal/intelligence"
	"github.com/sells-group/lead-intel/internal/store"
)

var (
	exportOutput string
	exportKind   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a pipeline and write the report to an xlsx workbook",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "report.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportKind, "pipeline", "intelligence", "pipeline to run: intelligence or geo")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	switch exportKind {
	case "intelligence":
		engine, err := intelligence.NewEngine(st, cfg)
		if err != nil {
			return err
		}
		report, err := engine.Run(ctx)
		if err != nil {
			return err
		}
		if err := export.WriteMLReport(report, exportOutput); err != nil {
			return err
		}
	case "geo":
		engine, err := geoanalysis.NewEngine(st, cfg)
		if err != nil {
			return err
		}
		report, err := engine.Run(ctx)
		if err != nil {
			return err
		}
		if err := export.WriteGeoReport(report, exportOutput); err != nil {
			return err
		}
	default:
		return eris.Errorf("export: unknown pipeline %q", exportKind)
	}

	zap.L().Info("export complete", zap.String("path", exportOutput), zap.String("pipeline", exportKind))
	return nil
}
