package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/core"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/integration"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/internal/storage"
	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

var (
	runFormat  string
	runProject string
	runYes     bool
	runOutput  string
	runOffline bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Process a backlog card through the full agent pipeline",
	Long: `Parse a backlog card, show its summary, and on confirmation run the full
pipeline: codebase analysis, crew selection, and the crew's task stages.
The final implementation output is written to the result file and the card
is recorded in the card registry.

The card is read from a file, or from stdin when the argument is "-" or
omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Parser == nil || Analyzer == nil || Crews == nil {
			return fmt.Errorf("pipeline services not initialized")
		}

		data, hint, err := readCardInput(args)
		if err != nil {
			return err
		}
		if runFormat != "" {
			hint = runFormat
		}

		card, err := Parser.Parse(data, hint)
		if err != nil {
			return fmt.Errorf("parsing card: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, card.ToSummary())
		fmt.Fprintln(out)

		if !runYes && !confirm(cmd, "Process this card?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		runner, err := selectRunner()
		if err != nil {
			return err
		}

		orchestrator, err := core.NewOrchestrator(Analyzer, Crews, runner, Interaction, Events)
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		project := runProject
		if project == "" {
			project, _ = os.Getwd()
		}

		result, err := orchestrator.Execute(context.Background(), card, project)
		if err != nil {
			recordCard(card, storage.CardStatusFailed, "")
			return fmt.Errorf("processing card: %w", err)
		}

		resultPath := runOutput
		if resultPath == "" {
			resultPath = filepath.Join(project, "result.md")
		}
		if err := writeResult(resultPath, card, result); err != nil {
			return err
		}

		recordCard(card, storage.CardStatusCompleted, resultPath)
		fmt.Fprintf(out, "Result written to %s\n", resultPath)
		return nil
	},
}

// selectRunner picks the agent runner: the static offline runner when
// requested, otherwise the OpenAI runner from settings.
func selectRunner() (core.AgentRunner, error) {
	if runOffline {
		return &integration.StaticRunner{Outputs: []string{
			`{"framework": "HTML/CSS/JS", "files_to_modify": [], "files_to_create": ["index.html"], "requirements": "offline run", "dependencies": []}`,
			"Offline mode: no agent output generated.",
		}}, nil
	}
	if Settings == nil || Settings.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set (use --offline to run without agents)")
	}
	runner, err := integration.NewOpenAIRunner(Settings.OpenAIAPIKey, Settings.OpenAIModel, Settings.OpenAITemperature)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func writeResult(path string, card *models.BacklogCard, result string) error {
	var sb strings.Builder
	sb.WriteString("# Backlog Card Processing Result\n\n")
	sb.WriteString("## Original Card\n\n")
	sb.WriteString(card.ToMarkdown())
	sb.WriteString("\n## Implementation Result\n\n")
	sb.WriteString(result)
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

// recordCard registers the processed card. Registry failures are non-fatal;
// the pipeline result has already been produced.
func recordCard(card *models.BacklogCard, status, resultPath string) {
	if CardStore == nil {
		return
	}
	id, err := CardStore.NextID()
	if err != nil {
		return
	}
	entry := storage.EntryFromCard(id, card, status)
	entry.ResultPath = resultPath
	if err := CardStore.AddCard(entry); err != nil {
		return
	}
	_ = CardStore.Save()
}

func init() {
	runCmd.Flags().StringVar(&runFormat, "format", "", "format hint: json, markdown, or plain_text")
	runCmd.Flags().StringVarP(&runProject, "project", "p", "", "project directory to analyze (default: current directory)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "skip the confirmation prompt")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "result file path (default: <project>/result.md)")
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "run without calling the agent API")
	rootCmd.AddCommand(runCmd)
}
