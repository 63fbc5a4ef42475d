package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascend-app/ascend/internal/app/progression"
	"github.com/ascend-app/ascend/internal/domain"
)

func init() {
	streakCmd.Flags().StringVar(&streakUser, "user", "", "User id (required)")
	streakCmd.Flags().StringVar(&streakKind, "kind", "routine", "Activity kind: routine or habit")
	streakCmd.Flags().BoolVar(&streakRecord, "record", false, "Record a completion for today instead of just reading")
	streakCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(streakCmd)
}

var (
	streakUser   string
	streakKind   string
	streakRecord bool
)

var streakCmd = &cobra.Command{
	Use:   "streak <activity-id>",
	Short: "Show or record an activity streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	activityID := args[0]
	kind := domain.ActivityKind(streakKind)

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()

	if streakRecord {
		if _, err := d.DB.EnsureUser(ctx, streakUser); err != nil {
			return err
		}
		streak, err := d.Progression.RecordCompletion(ctx, streakUser, kind, activityID)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded. %s streak for %q: %d day(s)\n", kind, activityID, streak)
		return nil
	}

	streak, err := d.Progression.Streak(ctx, streakUser, kind, activityID)
	if err != nil {
		return err
	}
	fmt.Printf("%s streak for %q: %d day(s)\n", kind, activityID, streak)

	if kind == domain.ActivityHabit {
		rec, err := d.Progression.Progress(ctx, streakUser)
		if err == nil {
			formation := progression.HabitFormation(rec.StreakFor(kind, activityID), time.Now())
			fmt.Printf("Habit formation: %.0f%% of %d days\n", formation*100, progression.HabitLedgerDays)
		}
	}
	return nil
}
