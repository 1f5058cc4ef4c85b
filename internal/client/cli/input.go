package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal access, swapped out in tests.
var (
	readPassword    = term.ReadPassword
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// PromptLine writes "label: " to w and returns the next line from reader with
// surrounding whitespace removed. A final line without a newline still counts;
// an empty stream is io.EOF.
func PromptLine(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret asks for a password. On a terminal it is read without echo;
// otherwise (credentials piped in by a script) it is the next line of reader.
// Callers wipe the result.
func PromptSecret(reader *bufio.Reader, w io.Writer, label string) ([]byte, error) {
	if !stdinIsTerminal() {
		line, err := PromptLine(reader, w, label)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
