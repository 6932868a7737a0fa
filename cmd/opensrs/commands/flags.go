package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args into fs and checks that at least nargs positional
// arguments remain. done is true when the command should exit with code.
func parseFlags(fs *flag.FlagSet, args []string, nargs int, stderr io.Writer) (code int, done bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess, true
		}
		return exitCommandError, true
	}
	if fs.NArg() < nargs {
		fmt.Fprintf(stderr, "Error: expected %d argument(s), got %d\n", nargs, fs.NArg())
		fs.Usage()
		return exitCommandError, true
	}
	return 0, false
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCommandError
}
