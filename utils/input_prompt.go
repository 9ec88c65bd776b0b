package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/amalgam/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and reports whether the answer was yes.
// An empty answer or end of input means no.
func ConfirmPrompt(reader *bufio.Reader, question string) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(question + " (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("error reading input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
