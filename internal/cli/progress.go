package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ascend-app/ascend/internal/app/progression"
	"github.com/ascend-app/ascend/internal/domain"
)

func init() {
	progressCmd.Flags().StringVar(&progressUser, "user", "", "User id (required)")
	progressCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(progressCmd)
}

var progressUser string

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show category and overall progress",
	RunE:  runProgress,
}

const progressBarWidth = 20

func runProgress(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	rec, err := d.Progression.Progress(cmd.Context(), progressUser)
	if err != nil {
		return err
	}

	fmt.Printf("User: %s\n\n", rec.ID)
	for _, c := range domain.AllCategories() {
		cp := rec.Category(c)
		p := progression.ProgressWithinLevel(cp.XP, cp.Level)
		fmt.Printf("  %-14s L%-3d %s %d XP\n", c, cp.Level, bar(p), cp.XP)
	}

	fmt.Printf("\nOverall: level %d (%d/%d XP", rec.Overall.Level, rec.Overall.XP, progression.XPPerLevel)
	if rec.Overall.Prestige > 0 {
		fmt.Printf(", prestige %d", rec.Overall.Prestige)
	}
	fmt.Println(")")
	fmt.Printf("Today:   %d/%d XP\n", rec.Stats.TodayXP, d.Progression.Limits().DailyXPLimit)
	return nil
}

func bar(p float64) string {
	filled := int(p * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(".", progressBarWidth-filled) + "]"
}
