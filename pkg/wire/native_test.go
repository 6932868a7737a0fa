package wire

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Shape
	}{
		{name: "sequential", keys: []string{"0", "1", "2"}, want: ShapeList},
		{name: "single zero", keys: []string{"0"}, want: ShapeList},
		{name: "gap", keys: []string{"0", "2"}, want: ShapeMap},
		{name: "strings", keys: []string{"a", "b"}, want: ShapeMap},
		{name: "out of order", keys: []string{"1", "0"}, want: ShapeMap},
		{name: "starts at one", keys: []string{"1", "2"}, want: ShapeMap},
		{name: "leading zero", keys: []string{"00", "1"}, want: ShapeMap},
		// Empty collections cannot be classified; they are encoded as lists.
		{name: "empty is ambiguous", keys: nil, want: ShapeAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.keys); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.keys, got, tt.want)
			}
		})
	}
}

func TestFromNativeClassification(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{
			name: "int keys 0..2 are a list",
			in:   map[int]any{0: "a", 1: "b", 2: "c"},
			want: List{Scalar("a"), Scalar("b"), Scalar("c")},
		},
		{
			name: "int keys with gap are a map",
			in:   map[int]any{0: "a", 2: "c"},
			want: Map{{Key: "0", Value: Scalar("a")}, {Key: "2", Value: Scalar("c")}},
		},
		{
			name: "string keys are a map",
			in:   map[string]any{"b": "2", "a": "1"},
			want: Map{{Key: "a", Value: Scalar("1")}, {Key: "b", Value: Scalar("2")}},
		},
		{
			name: "numeric string keys behave like int keys",
			in:   map[string]any{"1": "y", "0": "x"},
			want: List{Scalar("x"), Scalar("y")},
		},
		{
			name: "empty map falls through to list",
			in:   map[string]any{},
			want: List{},
		},
		{
			name: "empty slice is a list",
			in:   []any{},
			want: List{},
		},
		{
			name: "slice",
			in:   []any{"x", 7, uint8(3), 1.5},
			want: List{Scalar("x"), Scalar("7"), Scalar("3"), Scalar("1.5")},
		},
		{
			name: "string slice",
			in:   []string{"ns1.example.com", "ns2.example.com"},
			want: List{Scalar("ns1.example.com"), Scalar("ns2.example.com")},
		},
		{
			name: "json number",
			in:   json.Number("3600"),
			want: Scalar("3600"),
		},
		{
			name: "nested",
			in: map[string]any{
				"attributes": map[string]any{"domain": "example.com"},
			},
			want: Map{{Key: "attributes", Value: Map{{Key: "domain", Value: Scalar("example.com")}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNative(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromNativeMapOrderIsDeterministic(t *testing.T) {
	in := map[string]any{"zeta": "1", "10": "2", "alpha": "3", "2": "4"}
	for i := 0; i < 20; i++ {
		got, err := FromNative(in)
		require.NoError(t, err)
		m, ok := AsMap(got)
		require.True(t, ok)
		assert.Equal(t, []string{"2", "10", "alpha", "zeta"}, m.Keys())
	}
}

func TestFromNativeUnsupported(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantPath string
		wantType string
	}{
		{name: "bool", in: true, wantPath: "", wantType: "bool"},
		{name: "nil", in: nil, wantPath: "", wantType: "nil"},
		{name: "struct", in: struct{}{}, wantPath: "", wantType: "struct {}"},
		{
			name:     "nested bool",
			in:       map[string]any{"attributes": map[string]any{"auto_renew": false}},
			wantPath: "attributes.auto_renew",
			wantType: "bool",
		},
		{
			name:     "bool in list",
			in:       map[string]any{"nameservers": []any{"ns1", true}},
			wantPath: "nameservers[1]",
			wantType: "bool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromNative(tt.in)
			var unsupported *UnsupportedValueError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected UnsupportedValueError, got %v", err)
			}
			if unsupported.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", unsupported.Path, tt.wantPath)
			}
			if unsupported.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", unsupported.Type, tt.wantType)
			}
		})
	}
}
