package client

import (
	"context"
	"errors"
	"strings"

	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

// Payload keys of an XCP request.
const (
	KeyProtocol   = "protocol"
	KeyAction     = "action"
	KeyObject     = "object"
	KeyAttributes = "attributes"
	KeyDomain     = "domain"
	KeyRecords    = "records"
)

// ProtocolXCP is the protocol named in every request payload.
const ProtocolXCP = "XCP"

// Actions and objects used by the built-in operations.
const (
	ActionLookup     = "lookup"
	ActionGetDNSZone = "get_dns_zone"
	ActionSetDNSZone = "set_dns_zone"

	ObjectDomain = "domain"
)

// ErrEmptyDomain is returned by operations called without a domain name.
var ErrEmptyDomain = errors.New("domain name is required")

// Command builds the payload {protocol: XCP, action, object, attributes}.
func Command(action, object string, attributes wire.Map) wire.Map {
	if attributes == nil {
		attributes = wire.Map{}
	}
	return wire.Map{
		{Key: KeyProtocol, Value: wire.Scalar(ProtocolXCP)},
		{Key: KeyAction, Value: wire.Scalar(action)},
		{Key: KeyObject, Value: wire.Scalar(object)},
		{Key: KeyAttributes, Value: attributes},
	}
}

// Do sends the command action/object with the given attributes.
func (c *Client) Do(ctx context.Context, action, object string, attributes wire.Map) (*envelope.Response, error) {
	return c.SimpleRequest(ctx, Command(action, object, attributes))
}

// LookupDomain checks whether domain is available for registration.
func (c *Client) LookupDomain(ctx context.Context, domain string) (*envelope.Response, error) {
	attrs, err := domainAttributes(domain)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, ActionLookup, ObjectDomain, attrs)
}

// GetDNSZone fetches the DNS zone of domain. Use dns.RecordsFromResponse to
// read the records.
func (c *Client) GetDNSZone(ctx context.Context, domain string) (*envelope.Response, error) {
	attrs, err := domainAttributes(domain)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, ActionGetDNSZone, ObjectDomain, attrs)
}

// SetDNSZone replaces the DNS zone of domain. records is usually a
// *dns.ZoneRecords but may be any value wire.FromNative accepts.
func (c *Client) SetDNSZone(ctx context.Context, domain string, records any) (*envelope.Response, error) {
	attrs, err := domainAttributes(domain)
	if err != nil {
		return nil, err
	}
	v, err := wire.FromNative(records)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, ActionSetDNSZone, ObjectDomain, append(attrs, wire.Pair{Key: KeyRecords, Value: v}))
}

func domainAttributes(domain string) (wire.Map, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, ErrEmptyDomain
	}
	return wire.Map{{Key: KeyDomain, Value: wire.Scalar(domain)}}, nil
}
