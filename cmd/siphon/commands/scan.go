package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one screening pass now",
	Long: `Runs a single screening pass immediately.

The run:
- fetches the full market snapshot
- applies the fundamental, technical, and factor gates
- persists the day's picks
- registers the picks with the position tracker

Example:
  go run ./cmd/siphon scan`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Siphon Daily Scan ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipe.RunScan(context.Background())
	if err != nil {
		return fmt.Errorf("run scan: %w", err)
	}

	fmt.Printf("\n✅ Scan completed in %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("   Pool: %d  Prescreened: %d  Scored: %d\n",
		result.PoolSize, result.Prescreened, result.HistoryFetched)

	if len(result.HotBoards) > 0 {
		fmt.Println("\nLeading boards:")
		for _, b := range result.HotBoards {
			fmt.Printf("  %s  %+.2f%%\n", b.Name, b.ChangePct)
		}
	}

	if len(result.Picks) == 0 {
		fmt.Println("\nNo picks today")
		return nil
	}

	fmt.Printf("\nPicks for %s:\n", result.ScanDate.Format("2006-01-02"))
	for i, pick := range result.Picks {
		fmt.Printf("  %d. %s %s  %.1f分  %s\n",
			i+1, pick.Symbol, pick.Name, pick.CompositeScore,
			strings.Join(pick.SignalTags, " "))
	}

	return nil
}
