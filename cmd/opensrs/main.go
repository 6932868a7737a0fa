// Command opensrs is a command-line client for the OpenSRS reseller API.
//
// Credentials come from a YAML config file (-config) and the OPENSRS_*
// environment variables:
//
//	export OPENSRS_USERNAME=myreseller
//	export OPENSRS_API_KEY=0123abcd...
//
// Usage:
//
//	opensrs <command> [flags] [args]
//
// Examples:
//
//	# Check availability on the test environment
//	opensrs lookup example.com
//
//	# Save a zone, edit it, and write it back on live
//	opensrs get-zone -env live -format yaml example.com > zone.yaml
//	opensrs set-zone -env live example.com zone.yaml
//
//	# Show the signed request for a payload without sending it
//	opensrs request -dry-run payload.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/supernovus/opensrs-go/cmd/opensrs/commands"
	"github.com/supernovus/opensrs-go/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "lookup":
		exitCode = commands.RunLookup(ctx, args, os.Stdout, os.Stderr)
	case "get-zone":
		exitCode = commands.RunGetZone(ctx, args, os.Stdout, os.Stderr)
	case "set-zone":
		exitCode = commands.RunSetZone(ctx, args, os.Stdout, os.Stderr)
	case "request":
		exitCode = commands.RunRequest(ctx, args, os.Stdout, os.Stderr)
	case "sign":
		exitCode = commands.RunSign(args, os.Stdin, os.Stdout, os.Stderr)
	case "shell":
		exitCode = commands.RunShell(ctx, args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println(version.UserAgent())
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = 1
	}

	stop()
	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`opensrs - OpenSRS reseller API client

Usage:
  opensrs <command> [flags] [args]

Commands:
  lookup     Check whether a domain is available
  get-zone   Print the DNS zone of a domain
  set-zone   Replace the DNS zone of a domain from a YAML file
  request    Send an arbitrary payload from a YAML file
  sign       Compute or check a request signature
  shell      Start an interactive session

Exit codes:
  0  success
  1  usage, configuration or transport error
  2  the API reported failure (is_success=0)

For command-specific help, run:
  opensrs <command> -help`)
}
