package log

import (
	"time"
)

// Event is a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RequestID correlates all events of one exchange (UUID).
	RequestID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	// Username is the reseller the request was signed for.
	Username string `cbor:"6,keyasint,omitempty"`

	// URL is the endpoint the request was sent to.
	URL string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Exchange *ExchangeEvent  `cbor:"10,keyasint,omitempty"` // Transport layer
	Message  *MessageEvent   `cbor:"11,keyasint,omitempty"` // Envelope layer
	Error    *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates message flow relative to the client.
type Direction uint8

const (
	// DirectionIn is a response from the API.
	DirectionIn Direction = 0
	// DirectionOut is a request to the API.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the HTTP layer (raw text).
	LayerTransport Layer = 0
	// LayerEnvelope is the OPS document layer.
	LayerEnvelope Layer = 1
	// LayerClient is the operation layer.
	LayerClient Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerEnvelope:
		return "ENVELOPE"
	case LayerClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	// CategoryMessage is a request or response.
	CategoryMessage Category = 0
	// CategoryError is a failure at any layer.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ExchangeEvent captures one side of an HTTP exchange.
type ExchangeEvent struct {
	// Size is the body size in bytes.
	Size int `cbor:"1,keyasint"`

	// StatusCode is the HTTP status (responses only).
	StatusCode int `cbor:"2,keyasint,omitempty"`

	// Duration is the round-trip time (responses only).
	Duration *time.Duration `cbor:"3,keyasint,omitempty"`

	// Body is the raw XML text, captured in debug mode only.
	Body []byte `cbor:"4,keyasint,omitempty"`

	// Truncated indicates Body was cut to MaxBodyCapture.
	Truncated bool `cbor:"5,keyasint,omitempty"`
}

// MaxBodyCapture bounds ExchangeEvent.Body.
const MaxBodyCapture = 64 << 10

// CaptureBody returns body as stored in an ExchangeEvent and whether it was
// truncated.
func CaptureBody(body string) ([]byte, bool) {
	if len(body) > MaxBodyCapture {
		return []byte(body[:MaxBodyCapture]), true
	}
	return []byte(body), false
}

// MessageEvent captures a request or response at the envelope layer.
type MessageEvent struct {
	Type MessageType `cbor:"1,keyasint"`

	// Action and Object are copied from the payload (e.g. "LOOKUP", "DOMAIN").
	Action string `cbor:"2,keyasint,omitempty"`
	Object string `cbor:"3,keyasint,omitempty"`

	// Version is the envelope protocol version.
	Version string `cbor:"4,keyasint,omitempty"`

	// For responses: the API result.
	IsSuccess    *bool  `cbor:"5,keyasint,omitempty"`
	ResponseCode *int   `cbor:"6,keyasint,omitempty"`
	ResponseText string `cbor:"7,keyasint,omitempty"`

	// Payload is the decoded data block (native form), captured in debug
	// mode only.
	Payload any `cbor:"8,keyasint,omitempty"`
}

// MessageType distinguishes requests from responses.
type MessageType uint8

const (
	// MessageTypeRequest is an outgoing request.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse is an incoming response.
	MessageTypeResponse MessageType = 1
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the API or HTTP code, if any.
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what was being done.
	Context string `cbor:"4,keyasint,omitempty"`
}
