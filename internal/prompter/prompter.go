// Package prompter asks the user simple questions on the terminal.
package prompter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/schmitthub/vitehook/internal/iostreams"
)

// Prompter provides interactive prompting functionality.
// Prompts go to stderr so stdout stays clean for data.
type Prompter struct {
	ios    *iostreams.IOStreams
	reader *bufio.Reader
}

// NewPrompter creates a new Prompter with the given IOStreams.
func NewPrompter(ios *iostreams.IOStreams) *Prompter {
	return &Prompter{ios: ios}
}

func (p *Prompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.ios.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line == "" {
			fmt.Fprintln(p.ios.ErrOut)
			return "", io.EOF
		}
		if err != io.EOF {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return strings.TrimSpace(line), nil
}

// Confirm prompts the user for a yes/no confirmation.
// In non-interactive mode, returns the default without prompting.
func (p *Prompter) Confirm(message string, defaultYes bool) (bool, error) {
	if !p.ios.IsInteractive() {
		return defaultYes, nil
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.ios.ErrOut, "%s %s ", message, hint)

	response, err := p.readLine()
	if err == io.EOF {
		return defaultYes, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(response) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select prompts the user to pick one of options and returns its index.
// In non-interactive mode, returns defaultIdx without prompting.
func (p *Prompter) Select(message string, options []string, defaultIdx int) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options provided")
	}
	if defaultIdx < 0 || defaultIdx >= len(options) {
		defaultIdx = 0
	}
	if !p.ios.IsInteractive() {
		return defaultIdx, nil
	}

	fmt.Fprintf(p.ios.ErrOut, "%s:\n", message)
	for i, opt := range options {
		marker := "  "
		if i == defaultIdx {
			marker = "> "
		}
		fmt.Fprintf(p.ios.ErrOut, "%s%d. %s\n", marker, i+1, opt)
	}
	fmt.Fprintf(p.ios.ErrOut, "Enter selection [%d]: ", defaultIdx+1)

	response, err := p.readLine()
	if err == io.EOF || (err == nil && response == "") {
		return defaultIdx, nil
	}
	if err != nil {
		return -1, err
	}

	// Accept the option text as well as its number.
	for i, opt := range options {
		if strings.EqualFold(response, opt) {
			return i, nil
		}
	}
	idx, err := strconv.Atoi(response)
	if err != nil || idx < 1 || idx > len(options) {
		return -1, fmt.Errorf("invalid selection: %s", response)
	}
	return idx - 1, nil
}
