package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/storage"
)

var (
	cardsStatus   string
	cardsAssignee string
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List processed cards from the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if CardStore == nil {
			return fmt.Errorf("card store not initialized")
		}

		filter := storage.CardFilter{Assignee: cardsAssignee}
		if cardsStatus != "" {
			filter.Status = []string{cardsStatus}
		}
		entries, err := CardStore.FilterCards(filter)
		if err != nil {
			return fmt.Errorf("listing cards: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No cards found.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%-12s %-10s %-12s %s\n", e.ID, e.Status, e.Format, e.Title)
		}
		return nil
	},
}

func init() {
	cardsCmd.Flags().StringVar(&cardsStatus, "status", "", "filter by status (parsed, completed, failed)")
	cardsCmd.Flags().StringVar(&cardsAssignee, "assignee", "", "filter by assignee")
	rootCmd.AddCommand(cardsCmd)
}
