package config

import (
	"fmt"
	"log"
	"os"
)

// Exitf writes a formatted message to stderr, behind the standard logger's
// prefix, and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, log.Prefix()+format+"\n", args...)
	os.Exit(1)
}
