package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

var (
	parseFormat string
	parseOutput string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a backlog card and print the normalized result",
	Long: `Parse a backlog card from a file, or from stdin when the file argument is
"-" or omitted. The format is detected automatically (JSON, markdown, plain
text) unless --format is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Parser == nil {
			return fmt.Errorf("parser not initialized")
		}

		data, hint, err := readCardInput(args)
		if err != nil {
			return err
		}
		if parseFormat != "" {
			hint = parseFormat
		}

		card, err := Parser.Parse(data, hint)
		if err != nil {
			return fmt.Errorf("parsing card: %w", err)
		}

		return printCard(cmd.OutOrStdout(), card, parseOutput)
	},
}

// readCardInput reads the raw card from the file argument or stdin and
// derives a format hint from the file extension.
func readCardInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}

	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied card file
	if err != nil {
		return "", "", fmt.Errorf("reading card file: %w", err)
	}

	var hint string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		hint = models.FormatJSON
	case ".md", ".markdown":
		hint = models.FormatMarkdown
	}
	return string(data), hint, nil
}

func printCard(w io.Writer, card *models.BacklogCard, output string) error {
	switch output {
	case "summary", "":
		fmt.Fprintln(w, card.ToSummary())
	case "markdown":
		fmt.Fprintln(w, card.ToMarkdown())
	case "json":
		data, err := json.MarshalIndent(card, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding card: %w", err)
		}
		fmt.Fprintln(w, string(data))
	default:
		return fmt.Errorf("unknown output format %q: use summary, markdown, or json", output)
	}
	return nil
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "format hint: json, markdown, or plain_text")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "summary", "output format: summary, markdown, or json")
	rootCmd.AddCommand(parseCmd)
}
