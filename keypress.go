package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// waitForKey prompts and blocks until one key is pressed on in. It returns
// immediately when in is not a terminal (redirected, or started without a
// console).
func waitForKey(in *os.File, out io.Writer) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	fmt.Fprintln(out, "\nPress any key to exit...")

	// Without raw mode the read waits for Enter, which still works.
	if old, err := term.MakeRaw(fd); err == nil {
		defer func() { _ = term.Restore(fd, old) }()
	}

	var b [1]byte
	_, _ = in.Read(b[:])
}
