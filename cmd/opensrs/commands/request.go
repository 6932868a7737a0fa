package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/signature"
	"github.com/supernovus/opensrs-go/pkg/transport"
)

const requestUsage = `opensrs request - Send an arbitrary payload

Usage:
  opensrs request [flags] <payload.yaml>

payload.yaml holds the data block, for example:

  protocol: XCP
  action: get
  object: domain
  attributes:
    domain: example.com
    type: all_info

With -dry-run the signed request is printed instead of sent.
`

// RunRequest runs the request command.
func RunRequest(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("request", requestUsage, stderr)
	opts := addCommonFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Print the signed request without sending it")
	if code, done := parseFlags(fs, args, 1, stderr); done {
		return code
	}
	if err := checkFormat(opts.Format); err != nil {
		return fail(stderr, err)
	}

	payload, err := readPayload(fs.Arg(0))
	if err != nil {
		return fail(stderr, err)
	}

	if *dryRun {
		cfg, err := opts.loadConfig()
		if err != nil {
			return fail(stderr, err)
		}
		text, err := envelope.Render(payload)
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "%s: %s\n", transport.HeaderUsername, cfg.Username)
		fmt.Fprintf(stdout, "%s: %s\n\n", transport.HeaderSignature, signature.Sign(cfg.APIKey, text))
		fmt.Fprint(stdout, text)
		return exitSuccess
	}

	c, closeLog, err := opts.newClient(stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer closeLog()

	resp, err := c.SimpleRequest(ctx, payload)
	if err != nil {
		return fail(stderr, err)
	}
	return printResponse(stdout, resp, opts.Format)
}
