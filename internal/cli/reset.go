package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ascend-app/ascend/internal/domain"
)

func init() {
	resetCmd.Flags().StringVar(&resetUser, "user", "", "User id (required)")
	resetCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(resetCmd)
}

var resetUser string

// The award path already rolls the daily counter over lazily; this command
// exists for explicit maintenance and for support scenarios.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's XP counter and completed-task list",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	err = d.DB.MutateUser(cmd.Context(), resetUser, func(rec *domain.UserRecord) error {
		rec.Stats = domain.DailyStats{}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Println("Daily stats reset.")
	return nil
}
