package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/geoanalysis"
	"github.com/sells-group/lead-intel/internal/store"
)

var geoJSON bool

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Run the geographical market analysis",
	Long: `Rolls the current lead snapshot up by country:

- Per-country lead counts, scores, deal value, conversion rate
- Market concentration (Herfindahl index)
- Expand/monitor/deprioritize recommendations per market`,
	RunE: runGeo,
}

func init() {
	geoCmd.Flags().BoolVar(&geoJSON, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(geoCmd)
}

func runGeo(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	engine, err := geoanalysis.NewEngine(st, cfg)
	if err != nil {
		return err
	}

	report, err := engine.Run(ctx)
	if err != nil {
		zap.L().Error("geographical analysis failed", zap.Error(err))
		return err
	}

	if geoJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	s := report.Summary
	fmt.Printf("Leads analyzed:  %d (skipped %d) across %d countries\n",
		s.TotalLeads, s.SkippedRows, s.CountryCount)
	fmt.Printf("Top market:      %s\n", s.TopMarket)
	fmt.Printf("Concentration:   %.4f (%s)\n\n", s.Concentration.Index, s.Concentration.Label)

	fmt.Printf("%-20s %-7s %-9s %-12s %-10s %-7s\n",
		"COUNTRY", "LEADS", "AVG", "VALUE", "CONV", "SHARE")
	for _, m := range report.CountryAnalysis {
		flag := ""
		if m.LowConfidence {
			flag = " *"
		}
		fmt.Printf("%-20s %-7d %-9.2f %-12.0f %-10.2f %.1f%%%s\n",
			truncate(m.Country, 20), m.LeadCount, m.AverageScore, m.TotalValue,
			m.ConversionRate, m.ShareOfTotal*100, flag)
	}

	fmt.Printf("\nMarket recommendations:\n")
	for _, rec := range report.Recommendations {
		fmt.Printf("  %-20s %-13s %s\n", truncate(rec.Country, 20), rec.Recommendation, rec.Rationale)
	}

	return nil
}
