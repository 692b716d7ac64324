// Package fatal centralizes the one external failure mode of semantic
// analysis: print a single line to standard error and exit with status
// 1. No pass in internal/resolver, internal/typecheck, or
// internal/staticinit calls this directly — they all return a plain
// error, collecting every failure point into one place at the outermost
// caller instead of scattering os.Exit calls through the pipeline.
package fatal

import (
	"fmt"
	"os"
)

// Check aborts the process if err is non-nil. It is only ever called
// from cmd/translator's main, after every pass has returned.
func Check(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
