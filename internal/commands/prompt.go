package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ClearPrompt asks before every expense is removed.
const ClearPrompt = "This will remove all expenses. Are you sure? (y/n)"

// Confirm prints prompt and reads a single keystroke from in. Only 'y' or
// 'Y' confirms; end of input declines. A terminal is switched to raw mode
// so the key takes effect without Enter.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintln(out, prompt); err != nil {
		return false, err
	}

	key, err := readKey(in)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return key == 'y' || key == 'Y', nil
}

func readKey(in io.Reader) (byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return 0, fmt.Errorf("setting raw mode: %w", err)
		}
		defer term.Restore(fd, state) //nolint:errcheck
	}

	var buf [1]byte
	if _, err := io.ReadFull(in, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
