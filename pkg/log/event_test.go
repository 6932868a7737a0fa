package log

import (
	"strings"
	"testing"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerTransport, "TRANSPORT"},
		{LayerEnvelope, "ENVELOPE"},
		{LayerClient, "CLIENT"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.layer.String(); got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryMessage, "MESSAGE"},
		{CategoryError, "ERROR"},
		{Category(1), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestMessageTypeString(t *testing.T) {
	if got := MessageTypeRequest.String(); got != "REQUEST" {
		t.Errorf("got %q", got)
	}
	if got := MessageTypeResponse.String(); got != "RESPONSE" {
		t.Errorf("got %q", got)
	}
	if got := MessageType(7).String(); got != "UNKNOWN" {
		t.Errorf("got %q", got)
	}
}

func TestCaptureBody(t *testing.T) {
	body, truncated := CaptureBody("<?xml?>")
	if string(body) != "<?xml?>" || truncated {
		t.Errorf("CaptureBody(short) = %q, %v", body, truncated)
	}

	long := strings.Repeat("x", MaxBodyCapture+10)
	body, truncated = CaptureBody(long)
	if len(body) != MaxBodyCapture || !truncated {
		t.Errorf("CaptureBody(long) = %d bytes, truncated %v", len(body), truncated)
	}
}
