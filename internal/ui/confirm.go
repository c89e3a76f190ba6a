package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts the user with a yes/no question. Returns true for yes.
func Confirm(prompt string) bool {
	return confirmFrom(os.Stdin, os.Stdout, StyleWarning.Render(prompt))
}

// ConfirmDanger is Confirm in the error color, for irreversible actions.
func ConfirmDanger(prompt string) bool {
	return confirmFrom(os.Stdin, os.Stdout, StyleError.Render("⚠ "+prompt))
}

// PromptInput asks for a single line of input and returns it trimmed.
func PromptInput(prompt string) string {
	fmt.Printf("%s: ", StyleValue.Render(prompt))
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}

func confirmFrom(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
