//go:build !windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintf(os.Stderr, "%s %s needs Windows and an NVIDIA driver\n", appName, displayVersion())
	os.Exit(1)
}
