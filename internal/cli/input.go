package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// errQuit ends an interactive session early.
var errQuit = errors.New("quit")

// prompt prints text and reads one trimmed line. EOF after partial input
// returns the partial line; EOF on an empty line returns errQuit.
func (a *App) prompt(text string) (string, error) {
	if _, err := fmt.Fprint(a.out, text+"\n> "); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				return strings.TrimSpace(line), nil
			}
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when input is a terminal,
// and a plain line otherwise.
func (a *App) promptPassword() (string, error) {
	f, ok := a.rawIn.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return a.prompt("Password")
	}
	fd := int(f.Fd())
	if _, err := fmt.Fprint(a.out, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
