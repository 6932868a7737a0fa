package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/supernovus/opensrs-go/pkg/dns"
)

// ZoneFile is the YAML form of a zone, as printed by get-zone and read by
// set-zone.
type ZoneFile struct {
	Domain  string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	Records []dns.Record `json:"records" yaml:"records"`
}

const getZoneUsage = `opensrs get-zone - Print the DNS zone of a domain

Usage:
  opensrs get-zone [flags] <domain>

The yaml output can be edited and passed to set-zone.
`

// RunGetZone runs the get-zone command.
func RunGetZone(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("get-zone", getZoneUsage, stderr)
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

	domain := fs.Arg(0)
	resp, err := c.GetDNSZone(ctx, domain)
	if err != nil {
		return fail(stderr, err)
	}
	if !resp.IsSuccess() {
		return printResponse(stdout, resp, opts.Format)
	}

	zone, err := dns.RecordsFromResponse(resp)
	if err != nil {
		return fail(stderr, err)
	}

	out := ZoneFile{Domain: domain, Records: zone.Records()}
	if err := writeOutput(stdout, out, opts.Format, func() { printZoneText(stdout, out) }); err != nil {
		return fail(stderr, err)
	}
	return exitSuccess
}

func printZoneText(w io.Writer, z ZoneFile) {
	fmt.Fprintf(w, "Zone %s: %d records\n", z.Domain, len(z.Records))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range z.Records {
		name := r.Subdomain
		if name == "" {
			name = "@"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Type, name, recordData(r))
	}
	tw.Flush()
}

func recordData(r dns.Record) string {
	switch r.Type {
	case dns.TypeA, dns.TypeAAAA:
		return r.Address
	case dns.TypeCNAME:
		return r.Hostname
	case dns.TypeMX:
		return fmt.Sprintf("%d %s", r.Priority, r.Hostname)
	case dns.TypeSRV:
		return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Hostname)
	case dns.TypeTXT:
		return fmt.Sprintf("%q", r.Text)
	default:
		return ""
	}
}

const setZoneUsage = `opensrs set-zone - Replace the DNS zone of a domain

Usage:
  opensrs set-zone [flags] <domain> <zone.yaml>

zone.yaml lists the records:

  records:
    - type: A
      subdomain: www
      address: 192.0.2.1
    - type: MX
      subdomain: ""
      priority: 10
      hostname: mx.example.com
`

// RunSetZone runs the set-zone command.
func RunSetZone(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("set-zone", setZoneUsage, stderr)
	opts := addCommonFlags(fs)
	if code, done := parseFlags(fs, args, 2, stderr); done {
		return code
	}
	if err := checkFormat(opts.Format); err != nil {
		return fail(stderr, err)
	}

	zone, err := readZoneFile(fs.Arg(1))
	if err != nil {
		return fail(stderr, err)
	}

	c, closeLog, err := opts.newClient(stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer closeLog()

	resp, err := c.SetDNSZone(ctx, fs.Arg(0), zone)
	if err != nil {
		return fail(stderr, err)
	}
	return printResponse(stdout, resp, opts.Format)
}

func readZoneFile(path string) (*dns.ZoneRecords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zone file: %w", err)
	}
	var zf ZoneFile
	if err := yaml.Unmarshal(data, &zf); err != nil {
		return nil, fmt.Errorf("failed to parse zone file %s: %w", path, err)
	}
	for i, r := range zf.Records {
		if !r.Type.Supported() {
			return nil, fmt.Errorf("%s: record %d: unsupported type %q", path, i, r.Type)
		}
	}
	return dns.New(zf.Records...), nil
}
