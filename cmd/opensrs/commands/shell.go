package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/supernovus/opensrs-go/pkg/client"
	"github.com/supernovus/opensrs-go/pkg/dns"
	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

const shellUsage = `opensrs shell - Interactive API session

Usage:
  opensrs shell [flags]
`

// RunShell runs the interactive shell.
func RunShell(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("shell", shellUsage, stderr)
	opts := addCommonFlags(fs)
	if code, done := parseFlags(fs, args, 0, stderr); done {
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

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "opensrs> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    shellCompleter,
	})
	if err != nil {
		return fail(stderr, fmt.Errorf("failed to create readline: %w", err))
	}
	defer rl.Close()

	sh := newShell(c, opts.Format, rl.Stdout())
	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return exitSuccess
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			return exitSuccess
		}
		if quit := sh.exec(ctx, line); quit {
			return exitSuccess
		}
	}
}

var shellCompleter = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("lookup"),
	readline.PcItem("zone"),
	readline.PcItem("raw"),
	readline.PcItem("env",
		readline.PcItem("test"),
		readline.PcItem("live"),
	),
	readline.PcItem("format",
		readline.PcItem("text"),
		readline.PcItem("yaml"),
		readline.PcItem("json"),
	),
	readline.PcItem("last"),
	readline.PcItem("quit"),
)

// shell holds the state of an interactive session.
type shell struct {
	client *client.Client
	format string
	out    io.Writer

	// last is the most recent response, shown by "last".
	last *envelope.Response
}

func newShell(c *client.Client, format string, out io.Writer) *shell {
	return &shell{client: c, format: format, out: out}
}

// exec runs one input line and reports whether the session should end.
func (s *shell) exec(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "lookup", "l":
		s.cmdLookup(ctx, args)

	case "zone", "z":
		s.cmdZone(ctx, args)

	case "raw":
		s.cmdRaw(ctx, args)

	case "env":
		s.cmdEnv(args)

	case "format":
		s.cmdFormat(args)

	case "last":
		s.cmdLast()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
OpenSRS Shell Commands:
  lookup <domain>                 - Check domain availability
  zone <domain>                   - Show the DNS zone of a domain
  raw <action> <object> [k=v ...] - Send any XCP command
  env [test|live|<url>]           - Show or switch the API endpoint
  format [text|yaml|json]         - Show or set the output format
  last                            - Show the raw XML of the last response
  help                            - Show this help
  quit                            - Exit`)
	fmt.Fprintf(s.out, "\nEndpoint: %s\n", s.client.URL())
}

func (s *shell) cmdLookup(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: lookup <domain>")
		return
	}
	resp, err := s.client.LookupDomain(ctx, args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.last = resp
	printResponse(s.out, resp, s.format)
}

func (s *shell) cmdZone(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: zone <domain>")
		return
	}
	resp, err := s.client.GetDNSZone(ctx, args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.last = resp
	if !resp.IsSuccess() {
		printResponse(s.out, resp, s.format)
		return
	}

	zone, err := dns.RecordsFromResponse(resp)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	out := ZoneFile{Domain: args[0], Records: zone.Records()}
	if err := writeOutput(s.out, out, s.format, func() { printZoneText(s.out, out) }); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *shell) cmdRaw(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: raw <action> <object> [key=value ...]")
		return
	}
	attrs := wire.Map{}
	for _, kv := range args[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			fmt.Fprintf(s.out, "Invalid attribute %q (expected key=value)\n", kv)
			return
		}
		attrs = attrs.With(k, wire.Scalar(v))
	}

	resp, err := s.client.Do(ctx, args[0], args[1], attrs)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.last = resp
	printResponse(s.out, resp, s.format)
}

func (s *shell) cmdEnv(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Endpoint: %s\n", s.client.URL())
		return
	}
	switch target := args[0]; strings.ToLower(target) {
	case "test":
		s.client = s.client.UseTest()
	case "live":
		s.client = s.client.UseLive()
	default:
		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			fmt.Fprintf(s.out, "Unknown environment: %s\n", target)
			return
		}
		s.client = s.client.WithURL(target)
	}
	fmt.Fprintf(s.out, "Endpoint: %s\n", s.client.URL())
}

func (s *shell) cmdFormat(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "Format: %s\n", s.format)
		return
	}
	if err := checkFormat(args[0]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.format = args[0]
}

func (s *shell) cmdLast() {
	if s.last == nil {
		fmt.Fprintln(s.out, "No response yet")
		return
	}
	fmt.Fprintln(s.out, s.last.Text())
}
