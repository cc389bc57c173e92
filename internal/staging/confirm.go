package staging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// TerminalConfirmer prompts an interactive operator on stdin/stdout. When
// stdin is not a terminal there is nobody to answer, so every prompt is
// declined and the files stay untouched.
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer

	interactive bool
}

// NewTerminalConfirmer builds a confirmer over the process's stdin/stdout.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Confirm prints the prompt and reads a yes/no answer. Anything other than
// "y" or "yes" declines.
func (t *TerminalConfirmer) Confirm(prompt string) bool {
	if !t.interactive {
		return false
	}
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(t.in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
