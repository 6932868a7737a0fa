package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/supernovus/opensrs-go/pkg/log"
	"github.com/supernovus/opensrs-go/pkg/signature"
	"github.com/supernovus/opensrs-go/pkg/version"
)

// Header names sent with every request.
const (
	HeaderContentType = "Content-Type"
	HeaderUsername    = "X-Username"
	HeaderSignature   = "X-Signature"
	HeaderUserAgent   = "User-Agent"

	ContentTypeXML = "text/xml"
)

// Defaults applied by New.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 8 << 20
)

// Transport errors.
var (
	// ErrNoURL indicates the transport has no endpoint configured.
	ErrNoURL = errors.New("no API URL configured")

	// ErrResponseTooLarge indicates the response exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// StatusError is returned for responses with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string

	// Body is the start of the response body, for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected HTTP status %s", e.Status)
	}
	return fmt.Sprintf("unexpected HTTP status %s: %s", e.Status, e.Body)
}

const statusBodyLimit = 256

// Config configures a Transport.
type Config struct {
	// URL is the API endpoint, e.g. https://horizon.opensrs.net:55443.
	URL string

	// Username is sent as X-Username.
	Username string

	// APIKey signs each body. It is never sent.
	APIKey string

	// Timeout bounds each exchange when ctx has no deadline (default: 30s).
	Timeout time.Duration

	// MaxResponseSize caps the response body (default: 8MiB).
	MaxResponseSize int64

	// TLS configures certificate verification. Ignored when HTTPClient is set.
	TLS *TLSConfig

	// HTTPClient overrides the HTTP client.
	HTTPClient Doer

	// ProtocolLogger receives exchange events. Nil disables them.
	ProtocolLogger log.Logger

	// Debug includes request and response text in exchange events.
	Debug bool
}

// Transport posts signed requests. It is safe for concurrent use.
type Transport struct {
	config Config
	http   Doer
	logger log.Logger
}

// New creates a Transport, filling defaults for zero fields.
func New(config Config) *Transport {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxResponseSize == 0 {
		config.MaxResponseSize = DefaultMaxResponseSize
	}

	doer := config.HTTPClient
	if doer == nil {
		doer = &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: NewClientTLSConfig(config.TLS),
			},
		}
	}

	return &Transport{
		config: config,
		http:   doer,
		logger: log.OrNoop(config.ProtocolLogger),
	}
}

// URL returns the configured endpoint.
func (t *Transport) URL() string {
	return t.config.URL
}

// Post signs body, sends it, and returns the response text.
func (t *Transport) Post(ctx context.Context, body string) (string, error) {
	if t.config.URL == "" {
		return "", ErrNoURL
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.URL, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(HeaderContentType, ContentTypeXML)
	req.Header.Set(HeaderUsername, t.config.Username)
	req.Header.Set(HeaderSignature, signature.Sign(t.config.APIKey, body))
	req.Header.Set(HeaderUserAgent, version.UserAgent())

	id := RequestID(ctx)
	t.logExchange(id, log.DirectionOut, body, 0, nil)

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.logError(id, err, nil)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	text, err := t.readBody(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		t.logError(id, err, nil)
		return "", err
	}
	t.logExchange(id, log.DirectionIn, text, resp.StatusCode, &elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(text), statusBodyLimit),
		}
		code := resp.StatusCode
		t.logError(id, serr, &code)
		return "", serr
	}

	return text, nil
}

func (t *Transport) readBody(r io.Reader) (string, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, t.config.MaxResponseSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if n > t.config.MaxResponseSize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, t.config.MaxResponseSize)
	}
	return buf.String(), nil
}

func (t *Transport) logExchange(id string, dir log.Direction, body string, status int, elapsed *time.Duration) {
	ex := &log.ExchangeEvent{
		Size:       len(body),
		StatusCode: status,
		Duration:   elapsed,
	}
	if t.config.Debug {
		ex.Body, ex.Truncated = log.CaptureBody(body)
	}
	t.logger.Log(log.Event{
		Timestamp: time.Now(),
		RequestID: id,
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Username:  t.config.Username,
		URL:       t.config.URL,
		Exchange:  ex,
	})
}

func (t *Transport) logError(id string, err error, code *int) {
	t.logger.Log(log.Event{
		Timestamp: time.Now(),
		RequestID: id,
		Direction: log.DirectionIn,
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Username:  t.config.Username,
		URL:       t.config.URL,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Code:    code,
			Context: "post",
		},
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id for protocol log events.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
