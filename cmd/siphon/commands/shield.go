package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// shieldCmd represents the shield command
var shieldCmd = &cobra.Command{
	Use:   "shield",
	Short: "Evaluate exit verdicts for open positions",
	Long: `Evaluates the exit shield over every open position without running
the tracking pass. Useful for an intraday look at the position book.

Example:
  go run ./cmd/siphon shield`,
	RunE: runShield,
}

func init() {
	rootCmd.AddCommand(shieldCmd)
}

func runShield(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Siphon Exit Shield ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := a.pipe.ShieldReport(context.Background())
	if err != nil {
		return fmt.Errorf("shield report: %w", err)
	}

	if len(reports) == 0 {
		fmt.Println("\nNo open positions")
		return nil
	}

	fmt.Printf("\nOpen positions (%d):\n", len(reports))
	for _, rep := range reports {
		pos := rep.Position
		fmt.Printf("  %s %s  day %d  %+.2f%%\n",
			pos.StockCode, pos.StockName, pos.HeldDays, pos.CumulativeReturn)
		fmt.Printf("    [%s] %s (risk %d)\n",
			rep.Decision.Action, rep.Decision.Reason, rep.Decision.RiskScore)
	}

	return nil
}
