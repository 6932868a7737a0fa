// Package client is the high-level OpenSRS API client.
//
// A Client builds an OPS request from a payload, renders and signs it, posts
// it to the selected environment and parses the response:
//
//	c := client.New(client.Config{Username: "reseller", APIKey: key}).UseTest()
//	resp, err := c.LookupDomain(ctx, "example.com")
//	if err != nil {
//	    return err // transport or malformed response
//	}
//	if err := resp.Err(); err != nil {
//	    return err // API reported failure
//	}
//
// A well-formed response reporting is_success=0 is returned without error so
// that callers can inspect it; Response.Err converts it into an
// *envelope.APIError.
package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/supernovus/opensrs-go/pkg/config"
	"github.com/supernovus/opensrs-go/pkg/endpoint"
	"github.com/supernovus/opensrs-go/pkg/envelope"
	"github.com/supernovus/opensrs-go/pkg/log"
	"github.com/supernovus/opensrs-go/pkg/transport"
	"github.com/supernovus/opensrs-go/pkg/version"
	"github.com/supernovus/opensrs-go/pkg/wire"
)

// Config configures a Client.
type Config struct {
	// Username is the reseller username.
	Username string

	// APIKey is the reseller private key.
	APIKey string

	// URL is the API endpoint. Usually set through UseTest or UseLive.
	URL string

	// Timeout bounds a request when the context has no deadline.
	Timeout time.Duration

	// MaxResponseSize caps response bodies.
	MaxResponseSize int64

	// Debug logs rendered requests and captures bodies in protocol events.
	Debug bool

	// TLS configures certificate verification.
	TLS *transport.TLSConfig

	// HTTPClient overrides the HTTP client.
	HTTPClient transport.Doer

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives protocol events. Nil disables them.
	ProtocolLogger log.Logger
}

// Client sends requests to one OpenSRS environment. It is immutable and
// safe for concurrent use; UseTest, UseLive and WithURL return new clients.
type Client struct {
	config    Config
	transport transport.Poster
	protocol  log.Logger
	newID     func() string
}

// New creates a Client. Without a URL every request fails with
// transport.ErrNoURL until UseTest, UseLive or WithURL is called.
func New(config Config) *Client {
	return &Client{
		config: config,
		transport: transport.New(transport.Config{
			URL:             config.URL,
			Username:        config.Username,
			APIKey:          config.APIKey,
			Timeout:         config.Timeout,
			MaxResponseSize: config.MaxResponseSize,
			TLS:             config.TLS,
			HTTPClient:      config.HTTPClient,
			ProtocolLogger:  config.ProtocolLogger,
			Debug:           config.Debug,
		}),
		protocol: log.OrNoop(config.ProtocolLogger),
		newID:    uuid.NewString,
	}
}

// FromConfig creates a Client from loaded settings. If cfg.ProtocolLog is
// set, a FileLogger is opened and combined with protocolLogger; the returned
// close function releases it.
func FromConfig(cfg config.Config, logger *slog.Logger, protocolLogger log.Logger) (*Client, func() error, error) {
	url, err := cfg.ResolveURL()
	if err != nil {
		return nil, nil, err
	}

	var tlsConfig *transport.TLSConfig
	if cfg.CAFile != "" {
		pool, err := transport.LoadCertPool(cfg.CAFile)
		if err != nil {
			return nil, nil, err
		}
		tlsConfig = &transport.TLSConfig{RootCAs: pool}
	}

	closeFn := func() error { return nil }
	if cfg.ProtocolLog != "" {
		file, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return nil, nil, err
		}
		protocolLogger = log.NewMultiLogger(protocolLogger, file)
		closeFn = file.Close
	}

	c := New(Config{
		Username:        cfg.Username,
		APIKey:          cfg.APIKey,
		URL:             url,
		Timeout:         cfg.Timeout,
		MaxResponseSize: cfg.MaxResponseSize,
		Debug:           cfg.Debug,
		Logger:          logger,
		ProtocolLogger:  protocolLogger,
		TLS:             tlsConfig,
	})
	return c, closeFn, nil
}

// URL returns the endpoint requests are sent to.
func (c *Client) URL() string {
	return c.config.URL
}

// WithURL returns a copy of c that sends requests to url.
func (c *Client) WithURL(url string) *Client {
	cfg := c.config
	cfg.URL = url
	n := New(cfg)
	n.newID = c.newID
	return n
}

// UseTest returns a copy of c bound to the test environment.
func (c *Client) UseTest() *Client {
	return c.useEnvironment(endpoint.Test)
}

// UseLive returns a copy of c bound to the live environment.
func (c *Client) UseLive() *Client {
	return c.useEnvironment(endpoint.Live)
}

// useEnvironment leaves the URL empty if name cannot be resolved, so
// requests fail with transport.ErrNoURL.
func (c *Client) useEnvironment(name string) *Client {
	url, err := endpoint.URL(name)
	if err != nil {
		c.debugLog("environment lookup failed", "environment", name, "error", err)
	}
	return c.WithURL(url)
}

// NewRequest returns an empty request document.
func (c *Client) NewRequest() *envelope.Request {
	return envelope.NewRequest()
}

// SimpleRequest wraps payload in a request, sends it and parses the response.
// payload is anything wire.FromNative accepts, typically a wire.Map.
func (c *Client) SimpleRequest(ctx context.Context, payload any) (*envelope.Response, error) {
	if c.config.URL == "" {
		return nil, transport.ErrNoURL
	}

	id := c.newID()
	ctx = transport.WithRequestID(ctx, id)

	req := envelope.NewRequest()
	if err := req.AddDataBlock(payload); err != nil {
		c.logError(id, err, "encode")
		return nil, err
	}
	text, err := req.Render()
	if err != nil {
		c.logError(id, err, "render")
		return nil, err
	}

	if c.config.Debug {
		c.debugLog("request", "request_id", id, "xml", text)
	}
	c.logRequest(id, req)

	raw, err := c.transport.Post(ctx, text)
	if err != nil {
		return nil, err
	}

	resp, err := envelope.ParseResponse(raw)
	if err != nil {
		c.logError(id, err, "parse")
		return nil, err
	}

	if err := version.CheckResponse(resp.Version()); err != nil {
		c.debugLog("response version mismatch", "request_id", id, "error", err)
	}
	if c.config.Debug {
		c.debugLog("response", "request_id", id, "xml", raw)
	}
	c.logResponse(id, resp)

	return resp, nil
}

func (c *Client) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}

func (c *Client) logRequest(id string, req *envelope.Request) {
	msg := &log.MessageEvent{
		Type:    log.MessageTypeRequest,
		Version: envelope.ProtocolVersion,
	}
	if v, ok := req.Payload(); ok {
		msg.Action, msg.Object = actionObject(v)
		if c.config.Debug {
			msg.Payload = wire.ToNative(v)
		}
	}
	c.protocol.Log(log.Event{
		Timestamp: time.Now(),
		RequestID: id,
		Direction: log.DirectionOut,
		Layer:     log.LayerEnvelope,
		Category:  log.CategoryMessage,
		Username:  c.config.Username,
		URL:       c.config.URL,
		Message:   msg,
	})
}

func (c *Client) logResponse(id string, resp *envelope.Response) {
	success := resp.IsSuccess()
	msg := &log.MessageEvent{
		Type:         log.MessageTypeResponse,
		Version:      resp.Version(),
		IsSuccess:    &success,
		ResponseText: resp.ResponseText(),
	}
	if code, ok := resp.ResponseCode(); ok {
		msg.ResponseCode = &code
	}
	if v, ok := resp.Body(); ok {
		msg.Action, msg.Object = actionObject(v)
		if c.config.Debug {
			msg.Payload = wire.ToNative(v)
		}
	}
	c.protocol.Log(log.Event{
		Timestamp: time.Now(),
		RequestID: id,
		Direction: log.DirectionIn,
		Layer:     log.LayerEnvelope,
		Category:  log.CategoryMessage,
		Username:  c.config.Username,
		URL:       c.config.URL,
		Message:   msg,
	})
}

func (c *Client) logError(id string, err error, stage string) {
	c.protocol.Log(log.Event{
		Timestamp: time.Now(),
		RequestID: id,
		Layer:     log.LayerClient,
		Category:  log.CategoryError,
		Username:  c.config.Username,
		URL:       c.config.URL,
		Error: &log.ErrorEventData{
			Layer:   log.LayerClient,
			Message: err.Error(),
			Context: stage,
		},
	})
}

func actionObject(v wire.Value) (action, object string) {
	m, ok := wire.AsMap(v)
	if !ok {
		return "", ""
	}
	action, _ = m.GetString(KeyAction)
	object, _ = m.GetString(KeyObject)
	return action, object
}
