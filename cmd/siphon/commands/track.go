package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run the after-close tracking pass now",
	Long: `Runs the daily tracking pass immediately.

The run:
- auto-closes lineages past the holding window
- accrues today's performance row for each open position
- prints the exit shield verdict per position

With --metrics it also prints the per-strategy scorecard over recently
closed lineages.

Example:
  go run ./cmd/siphon track
  go run ./cmd/siphon track --metrics`,
	RunE: runTrack,
}

var (
	trackMetrics     bool
	trackMetricsDays int
)

func init() {
	rootCmd.AddCommand(trackCmd)

	// Flags
	trackCmd.Flags().BoolVar(&trackMetrics, "metrics", false, "print strategy scorecards")
	trackCmd.Flags().IntVar(&trackMetricsDays, "days", 90, "scorecard lookback window in days")
}

func runTrack(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Siphon Daily Tracking ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.pipe.RunTracking(ctx); err != nil {
		return fmt.Errorf("run tracking: %w", err)
	}

	reports, err := a.pipe.ShieldReport(ctx)
	if err != nil {
		return fmt.Errorf("shield report: %w", err)
	}

	fmt.Println("\n✅ Tracking completed")

	if len(reports) == 0 {
		fmt.Println("\nNo open positions")
	} else {
		fmt.Printf("\nOpen positions (%d):\n", len(reports))
		for _, rep := range reports {
			pos := rep.Position
			fmt.Printf("  %s %s  day %d  %+.2f%% (vs index %+.2f%%)\n",
				pos.StockCode, pos.StockName, pos.HeldDays,
				pos.CumulativeReturn, pos.IndexReturn)
			fmt.Printf("    [%s] %s (risk %d)\n",
				rep.Decision.Action, rep.Decision.Reason, rep.Decision.RiskScore)
		}
	}

	if trackMetrics {
		if err := printMetrics(ctx, a, trackMetricsDays); err != nil {
			return err
		}
	}

	return nil
}

func printMetrics(ctx context.Context, a *app, days int) error {
	metrics, err := a.tracker.MetricsByStrategyTag(ctx, days)
	if err != nil {
		return fmt.Errorf("strategy metrics: %w", err)
	}

	if len(metrics) == 0 {
		fmt.Printf("\nNo closed lineages in the last %d days\n", days)
		return nil
	}

	fmt.Printf("\nStrategy scorecards (last %d days):\n", days)
	for tag, m := range metrics {
		fmt.Printf("  %s\n", tag)
		fmt.Printf("    Closed: %d  Win rate: %.1f%%  Avg return: %+.2f%%  Avg excess: %+.2f%%\n",
			m.Total, m.WinRate, m.AvgReturn, m.AvgExcess)
		fmt.Printf("    Gold: %d  Silver: %d  Trash: %d  Best: %+.2f%%  Worst: %+.2f%%\n",
			m.GoldCount, m.SilverCount, m.TrashCount, m.BestReturn, m.WorstReturn)
	}
	return nil
}
