package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Question/answer transcript commands",
}

var transcriptsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search recorded question/answer transcripts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Transcripts == nil {
			return fmt.Errorf("transcript manager not initialized")
		}

		entries, err := Transcripts.Search(args[0])
		if err != nil {
			return fmt.Errorf("searching transcripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No matching transcripts.")
			return nil
		}
		for _, e := range entries {
			status := "unanswered"
			if e.Answered {
				status = "answered"
			}
			fmt.Fprintf(out, "%s [%s] %s\n", e.Date.Format("2006-01-02"), status, e.Question)
			if e.Answer != "" {
				fmt.Fprintf(out, "    → %s\n", e.Answer)
			}
		}
		return nil
	},
}

func init() {
	transcriptsCmd.AddCommand(transcriptsSearchCmd)
	rootCmd.AddCommand(transcriptsCmd)
}
