package config

import (
	"fmt"
	"os"
)

// Exitf reports a startup failure for a brasa command on stderr and exits
// with status 1. Commands call it before their log prefix is set.
func Exitf(command, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "brasa-%s: %s\n", command, fmt.Sprintf(format, args...))
	os.Exit(1)
}
