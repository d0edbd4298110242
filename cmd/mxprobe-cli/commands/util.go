package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Dynom/mxprobe/batch"
	"github.com/Dynom/mxprobe/validator"
	"golang.org/x/term"
)

// isStdinPiped returns true if our input is from a pipe or a redirected file
func isStdinPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return isPiped(fi)
}

func isPiped(fi os.FileInfo) bool {
	if fi == nil {
		return false
	}

	return fi.Mode()&os.ModeNamedPipe == os.ModeNamedPipe || fi.Mode().IsRegular()
}

// isTerminal returns true if w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// wantProgress decides on progress output, mode is "auto", "always" or "never"
func wantProgress(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "", "auto":
		return isTerminal(w), nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	}

	return false, fmt.Errorf("invalid progress mode %q, expecting \"auto\", \"always\" or \"never\"", mode)
}

// progressPrinter writes "Validating email i of n" lines, overwriting the previous line on a terminal
func progressPrinter(w io.Writer) batch.ProgressFn {
	var lock sync.Mutex
	var eol = "\n"
	if isTerminal(w) {
		eol = "\r"
	}

	return func(_ context.Context, _ validator.Result, done, total int) {
		lock.Lock()
		defer lock.Unlock()

		_, _ = fmt.Fprintf(w, "Validating email %d of %d%s", done, total, eol)
		if done == total && eol == "\r" {
			_, _ = fmt.Fprintln(w)
		}
	}
}
