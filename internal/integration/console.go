// Package integration holds the outward-facing clients: the Slack messenger,
// the console fallback messenger, and the OpenAI agent runner.
package integration

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

var (
	consoleHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	consoleMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	consolePromptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// ConsoleMessenger implements the messenger contract over the terminal.
// Sends print to the writer; each GetReplies call prompts and blocks on a
// single line read from the reader.
type ConsoleMessenger struct {
	in      *bufio.Reader
	out     io.Writer
	counter atomic.Int64
}

// NewConsoleMessenger creates a console messenger. nil reader/writer
// default to stdin/stdout.
func NewConsoleMessenger(in io.Reader, out io.Writer) *ConsoleMessenger {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleMessenger{in: bufio.NewReader(in), out: out}
}

// SendMessage prints the message and returns a synthetic timestamp in the
// same seconds.micros shape Slack uses.
func (c *ConsoleMessenger) SendMessage(channel, text, threadTS string) (string, error) {
	header := fmt.Sprintf("[%s]", channel)
	if threadTS != "" {
		header = fmt.Sprintf("[%s ↳ %s]", channel, threadTS)
	}
	fmt.Fprintf(c.out, "%s %s\n", consoleHeaderStyle.Render(header), consoleMessageStyle.Render(text))
	return c.syntheticTS(), nil
}

// GetReplies prompts for one line of input. A non-empty answer becomes a
// single synthetic reply; an empty line means no answer yet, so the caller
// polls again and the prompt repeats.
func (c *ConsoleMessenger) GetReplies(channel, threadTS, sinceTS string) ([]models.Reply, error) {
	answer, err := c.readLine()
	if err != nil {
		return nil, fmt.Errorf("reading console reply: %w", err)
	}
	if answer == "" {
		return nil, nil
	}
	return []models.Reply{{Text: answer, Timestamp: c.syntheticTS()}}, nil
}

func (c *ConsoleMessenger) readLine() (string, error) {
	fmt.Fprint(c.out, consolePromptStyle.Render("Your answer: "))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *ConsoleMessenger) syntheticTS() string {
	now := time.Now()
	seq := c.counter.Add(1)
	return fmt.Sprintf("%d.%06d", now.Unix(), seq%1000000)
}
