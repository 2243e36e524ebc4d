package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askContext string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the human a question over the configured channel",
	Long: `Send a question over the configured channel (Slack thread or console) and
wait for the reply. Prints the answer, or the timeout notice if no reply
arrives within the configured window.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Interaction == nil {
			return fmt.Errorf("interaction service not initialized")
		}

		answer := Interaction.AskQuestion(args[0], askContext)
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askContext, "context", "c", "", "context shown with the question")
	rootCmd.AddCommand(askCmd)
}
