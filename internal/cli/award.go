package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ascend-app/ascend/internal/domain"
)

func init() {
	awardCmd.Flags().StringVar(&awardUser, "user", "", "User id (required)")
	awardCmd.Flags().StringVar(&awardType, "type", "normal", "Task type: normal, routine, habit, challenge")
	awardCmd.Flags().StringVar(&awardActivity, "activity", "", "Task/activity id (streak key and dedup key)")
	awardCmd.Flags().StringVar(&awardName, "name", "", "Human-readable task name")
	awardCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(awardCmd)
}

var (
	awardUser     string
	awardType     string
	awardActivity string
	awardName     string
)

var awardCmd = &cobra.Command{
	Use:   "award category=xp [category=xp ...]",
	Short: "Grant XP for a completed task",
	Example: `  ascend award --user alice --type habit --activity meditate mental=10
  ascend award --user alice physical=50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	gains := make(map[string]int64, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid gain %q, want category=xp", arg)
		}
		amount, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid xp amount in %q: %w", arg, err)
		}
		gains[parts[0]] += amount
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if _, err := d.DB.EnsureUser(ctx, awardUser); err != nil {
		return err
	}

	result, err := d.Progression.AddXP(ctx, awardUser, gains, domain.TaskType(awardType), awardActivity, awardName)
	if err != nil {
		return err
	}

	fmt.Printf("Awarded %d XP\n", result.TotalAwarded)
	for _, c := range domain.SortedCategories(result.Awarded) {
		fmt.Printf("  %-14s +%d\n", c, result.Awarded[c])
	}
	for _, c := range result.LevelUps {
		fmt.Printf("Level up: %s\n", c)
	}
	fmt.Printf("Overall level: %d\n", result.NewOverallLevel)
	if result.XPLimitReached {
		fmt.Println("Daily XP limit reached. Further XP resumes tomorrow.")
	}
	return nil
}
