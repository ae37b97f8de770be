package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/intelligence"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/store"
)

var (
	analyzeTop  int
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full lead intelligence pipeline",
	Long: `Runs all four models over the current lead snapshot:

- Lead scoring (0-100)
- Churn risk prediction
- Lead segmentation
- Smart recommendations

Prints a summary table, or the full report as JSON with --json.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "number of top leads to print (max 100)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	engine, err := intelligence.NewEngine(st, cfg)
	if err != nil {
		return err
	}

	report, err := engine.Run(ctx)
	if err != nil {
		zap.L().Error("analysis failed", zap.Error(err))
		return err
	}

	if analyzeJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	top, err := intelligence.TopN(report.TopLeads, analyzeTop)
	if err != nil {
		return err
	}

	s := report.Summary
	fmt.Printf("Leads analyzed:   %d (skipped %d)\n", s.TotalLeads, s.SkippedRows)
	fmt.Printf("Average score:    %.2f\n", s.AverageScore)
	fmt.Printf("Priority tiers:   hot %d / warm %d / cold %d\n",
		s.PriorityDistribution[model.TierHot],
		s.PriorityDistribution[model.TierWarm],
		s.PriorityDistribution[model.TierCold])
	fmt.Printf("At-risk leads:    %d\n\n", s.AtRiskCount)

	fmt.Printf("%-8s %-28s %-8s %-6s %-8s %s\n", "ID", "COMPANY", "SCORE", "TIER", "CHURN", "SEGMENT")
	for _, l := range top {
		fmt.Printf("%-8d %-28s %-8.2f %-6s %-8s %s\n",
			l.LeadID, truncate(l.Company, 28), l.Score, l.PriorityTier, l.ChurnLabel, l.Segment)
	}

	if len(report.Recommendations) > 0 {
		fmt.Printf("\nTop recommendations:\n")
		n := min(len(report.Recommendations), 5)
		for _, rec := range report.Recommendations[:n] {
			fmt.Printf("  [%d] %s: %s (%s)\n", rec.Priority, truncate(rec.Company, 28), rec.Action, rec.Rationale)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
