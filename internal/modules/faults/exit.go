package faults

import (
	"errors"
	"os"
)

// ExitOn is the outermost handler for fault errors. A nil error is a
// no-op. A *Fault prints the banner and terminates the process with the
// kind's numeric exit status; there is no return from that branch. Any
// other error exits with status 1 after printing it, so a non-catalog
// failure still refuses to continue.
func ExitOn(err error) {
	if err == nil {
		return
	}

	var f *Fault
	if errors.As(err, &f) {
		WriteBanner(os.Stdout, f)
		os.Exit(f.Kind.ExitCode())
	}

	os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}
