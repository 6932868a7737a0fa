package commands

import (
	"context"
	"io"
)

const lookupUsage = `opensrs lookup - Check whether a domain is available

Usage:
  opensrs lookup [flags] <domain>
`

// RunLookup runs the lookup command.
func RunLookup(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("lookup", lookupUsage, stderr)
	opts := addCommonFlags(fs)
	if code, done := parseFlags(fs, args, 1, stderr); done {
		return code
	}
	if err := checkFormat(opts.Format); err != nil {
		return fail(stderr, err)
	}

	c, closeLog, err := opts.newClient(stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer closeLog()

	resp, err := c.LookupDomain(ctx, fs.Arg(0))
	if err != nil {
		return fail(stderr, err)
	}
	return printResponse(stdout, resp, opts.Format)
}
