package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	prestigeCmd.Flags().StringVar(&prestigeUser, "user", "", "User id (required)")
	prestigeCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(prestigeCmd)
}

var prestigeUser string

var prestigeCmd = &cobra.Command{
	Use:   "prestige",
	Short: "Prestige at overall level 100 for a permanent XP bonus",
	RunE:  runPrestige,
}

func runPrestige(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	ok, err := d.Progression.Prestige(cmd.Context(), prestigeUser)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Not eligible: prestige requires overall level 100.")
		return nil
	}

	rec, err := d.Progression.Progress(cmd.Context(), prestigeUser)
	if err != nil {
		return err
	}
	fmt.Printf("Prestige %d! All future XP earns +%d%%.\n", rec.Overall.Prestige, rec.Overall.Prestige*3)
	return nil
}
