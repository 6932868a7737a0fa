// Package version provides the OPS protocol version and library identity.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Protocol is the OPS envelope version implemented by this library.
const Protocol = "0.9"

// Library is the release of this SDK, reported in the User-Agent header.
const Library = "0.3.0"

// ProtocolVersion represents a parsed "major.minor" protocol version.
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (ProtocolVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return ProtocolVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version is the same major.minor.
// OPS is still pre-1.0, so minor versions are not assumed compatible.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v == other
}

// CheckResponse reports whether a response header version is compatible with
// Protocol. An empty version is accepted; OpenSRS omits the header on some
// error replies.
func CheckResponse(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	got, err := Parse(s)
	if err != nil {
		return err
	}
	current, _ := Parse(Protocol)
	if !current.Compatible(got) {
		return fmt.Errorf("response protocol version %s is not compatible with %s", got, current)
	}
	return nil
}

// UserAgent returns the User-Agent header value sent with every request.
func UserAgent() string {
	return "opensrs-go/" + Library + " (OPS " + Protocol + ")"
}
