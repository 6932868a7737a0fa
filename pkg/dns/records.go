// Package dns converts OpenSRS DNS zone records to and from wire values.
//
// A get_dns_zone response carries the zone under attributes/records as a map
// from record type to a list of records:
//
//	records
//	  A     [ {subdomain, ip_address} ... ]
//	  AAAA  [ {subdomain, ipv6_address} ... ]
//	  CNAME [ {subdomain, hostname} ... ]
//	  MX    [ {subdomain, priority, hostname} ... ]
//	  SRV   [ {subdomain, priority, weight, port, hostname} ... ]
//	  TXT   [ {subdomain, text} ... ]
//
// ZoneRecords decodes that structure and, as a wire.ItemMarshaler, encodes
// itself back into a set_dns_zone request.
package dns

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

// RecordType names a zone record type.
type RecordType string

// Supported record types, in encoding order.
const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeSRV   RecordType = "SRV"
	TypeTXT   RecordType = "TXT"
)

// Types lists the supported record types in encoding order.
var Types = []RecordType{TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeSRV, TypeTXT}

// Field keys used on the wire.
const (
	KeySubdomain   = "subdomain"
	KeyIPAddress   = "ip_address"
	KeyIPv6Address = "ipv6_address"
	KeyHostname    = "hostname"
	KeyPriority    = "priority"
	KeyWeight      = "weight"
	KeyPort        = "port"
	KeyText        = "text"

	// KeyRecords is the attribute holding the zone.
	KeyRecords = "records"
)

// ErrNoRecords is returned by RecordsFromResponse when the response carries
// no records attribute.
var ErrNoRecords = errors.New("response has no records attribute")

var errNilRecords = errors.New("nil zone records")

// Record is one zone record. Which fields are meaningful depends on Type.
type Record struct {
	Type      RecordType `yaml:"type" json:"type"`
	Subdomain string     `yaml:"subdomain" json:"subdomain"`

	// Address is the IPv4 (A) or IPv6 (AAAA) address.
	Address string `yaml:"address,omitempty" json:"address,omitempty"`

	// Hostname is the target of CNAME, MX and SRV records.
	Hostname string `yaml:"hostname,omitempty" json:"hostname,omitempty"`

	Priority int `yaml:"priority,omitempty" json:"priority,omitempty"` // MX, SRV
	Weight   int `yaml:"weight,omitempty" json:"weight,omitempty"`     // SRV
	Port     int `yaml:"port,omitempty" json:"port,omitempty"`         // SRV

	Text string `yaml:"text,omitempty" json:"text,omitempty"` // TXT
}

// ZoneRecords is the record set of one zone.
type ZoneRecords struct {
	records []Record

	// unknown holds unmodelled record types as received.
	unknown wire.Map
}

// New returns a ZoneRecords holding records.
func New(records ...Record) *ZoneRecords {
	z := &ZoneRecords{}
	for _, r := range records {
		z.Add(r)
	}
	return z
}

// Add appends a record.
func (z *ZoneRecords) Add(r Record) {
	z.records = append(z.records, r)
}

// Records returns all modelled records in insertion order.
func (z *ZoneRecords) Records() []Record {
	return append([]Record(nil), z.records...)
}

// ByType returns the records of type t.
func (z *ZoneRecords) ByType(t RecordType) []Record {
	var out []Record
	for _, r := range z.records {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// Remove deletes every record for which match returns true and reports how
// many were removed.
func (z *ZoneRecords) Remove(match func(Record) bool) int {
	kept := z.records[:0]
	for _, r := range z.records {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	n := len(z.records) - len(kept)
	z.records = kept
	return n
}

// Len returns the number of modelled records.
func (z *ZoneRecords) Len() int {
	return len(z.records)
}

// FromValue decodes a records map.
func FromValue(v wire.Value) (*ZoneRecords, error) {
	m, ok := wire.AsMap(v)
	if !ok {
		// An empty zone may arrive as an empty dt_array.
		if l, isList := wire.AsList(v); isList && len(l) == 0 {
			return &ZoneRecords{}, nil
		}
		return nil, fmt.Errorf("records: expected map, got %s", kindOf(v))
	}

	z := &ZoneRecords{}
	for _, p := range m {
		t := RecordType(p.Key)
		if !t.Supported() {
			z.unknown = append(z.unknown, p)
			continue
		}
		list, ok := wire.AsList(p.Value)
		if !ok {
			return nil, fmt.Errorf("records.%s: expected list, got %s", t, kindOf(p.Value))
		}
		for i, item := range list {
			r, err := decodeRecord(t, item)
			if err != nil {
				return nil, fmt.Errorf("records.%s[%d]: %w", t, i, err)
			}
			z.records = append(z.records, r)
		}
	}
	return z, nil
}

// RecordsFromResponse decodes the records attribute of a get_dns_zone
// response.
func RecordsFromResponse(resp *envelope.Response) (*ZoneRecords, error) {
	attrs, ok := resp.Attributes()
	if !ok {
		return nil, ErrNoRecords
	}
	m, ok := wire.AsMap(attrs)
	if !ok {
		return nil, ErrNoRecords
	}
	v, ok := m.Get(KeyRecords)
	if !ok {
		return nil, ErrNoRecords
	}
	return FromValue(v)
}

// Value returns the records map: modelled types in Types order, then any
// unmodelled types as received.
func (z *ZoneRecords) Value() wire.Map {
	out := wire.Map{}
	for _, t := range Types {
		rs := z.ByType(t)
		if len(rs) == 0 {
			continue
		}
		list := make(wire.List, 0, len(rs))
		for _, r := range rs {
			list = append(list, encodeRecord(r))
		}
		out = append(out, wire.Pair{Key: string(t), Value: list})
	}
	return append(out, z.unknown...)
}

// MarshalItem writes the records map into item.
func (z *ZoneRecords) MarshalItem(item *etree.Element) error {
	if z == nil {
		return errNilRecords
	}
	return wire.Encode(item, z.Value())
}

var _ wire.ItemMarshaler = (*ZoneRecords)(nil)

// Supported reports whether t is one of Types.
func (t RecordType) Supported() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

func decodeRecord(t RecordType, v wire.Value) (Record, error) {
	m, ok := wire.AsMap(v)
	if !ok {
		return Record{}, fmt.Errorf("expected map, got %s", kindOf(v))
	}

	r := Record{Type: t, Subdomain: field(m, KeySubdomain)}
	var err error
	switch t {
	case TypeA:
		r.Address = field(m, KeyIPAddress)
	case TypeAAAA:
		r.Address = field(m, KeyIPv6Address)
	case TypeCNAME:
		r.Hostname = field(m, KeyHostname)
	case TypeMX:
		r.Hostname = field(m, KeyHostname)
		r.Priority, err = intField(m, KeyPriority)
	case TypeSRV:
		r.Hostname = field(m, KeyHostname)
		if r.Priority, err = intField(m, KeyPriority); err != nil {
			return Record{}, err
		}
		if r.Weight, err = intField(m, KeyWeight); err != nil {
			return Record{}, err
		}
		r.Port, err = intField(m, KeyPort)
	case TypeTXT:
		r.Text = field(m, KeyText)
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func encodeRecord(r Record) wire.Map {
	m := wire.Map{{Key: KeySubdomain, Value: wire.Scalar(r.Subdomain)}}
	switch r.Type {
	case TypeA:
		m = append(m, wire.Pair{Key: KeyIPAddress, Value: wire.Scalar(r.Address)})
	case TypeAAAA:
		m = append(m, wire.Pair{Key: KeyIPv6Address, Value: wire.Scalar(r.Address)})
	case TypeCNAME:
		m = append(m, wire.Pair{Key: KeyHostname, Value: wire.Scalar(r.Hostname)})
	case TypeMX:
		m = append(m,
			wire.Pair{Key: KeyPriority, Value: itoa(r.Priority)},
			wire.Pair{Key: KeyHostname, Value: wire.Scalar(r.Hostname)},
		)
	case TypeSRV:
		m = append(m,
			wire.Pair{Key: KeyPriority, Value: itoa(r.Priority)},
			wire.Pair{Key: KeyWeight, Value: itoa(r.Weight)},
			wire.Pair{Key: KeyPort, Value: itoa(r.Port)},
			wire.Pair{Key: KeyHostname, Value: wire.Scalar(r.Hostname)},
		)
	case TypeTXT:
		m = append(m, wire.Pair{Key: KeyText, Value: wire.Scalar(r.Text)})
	}
	return m
}

// intField parses an integer field; a missing or empty field is zero.
func intField(m wire.Map, key string) (int, error) {
	s := field(m, key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, s)
	}
	return n, nil
}

// field returns the string value of key, or "" if absent or not a scalar.
func field(m wire.Map, key string) string {
	s, _ := m.GetString(key)
	return s
}

func itoa(n int) wire.Scalar {
	return wire.Scalar(strconv.Itoa(n))
}

func kindOf(v wire.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind().String()
}
