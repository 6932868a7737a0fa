package wire

import (
	"strings"
	"testing"
)

func TestMarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{
			name: "lookup payload",
			in: map[string]any{
				"protocol":   "XCP",
				"action":     "lookup",
				"object":     "domain",
				"attributes": map[string]any{"domain": "example.com"},
			},
			want: Map{
				{Key: "action", Value: Scalar("lookup")},
				{Key: "attributes", Value: Map{{Key: "domain", Value: Scalar("example.com")}}},
				{Key: "object", Value: Scalar("domain")},
				{Key: "protocol", Value: Scalar("XCP")},
			},
		},
		{
			name: "flat list",
			in:   []any{"a", 2, "c"},
			want: List{Scalar("a"), Scalar("2"), Scalar("c")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if !strings.HasPrefix(string(data), "<data_block>") {
				t.Errorf("expected data_block fragment, got %s", data)
			}

			got, ok, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !ok {
				t.Fatalf("Unmarshal found no value")
			}
			if !Equal(tt.want, got) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalContainerRoot(t *testing.T) {
	got, ok, err := Unmarshal([]byte(`<dt_array><item key="0">x</item></dt_array>`))
	if err != nil || !ok {
		t.Fatalf("Unmarshal: ok=%v err=%v", ok, err)
	}
	if !Equal(List{Scalar("x")}, got) {
		t.Errorf("got %#v", got)
	}
}

func TestUnmarshalAbsent(t *testing.T) {
	got, ok, err := Unmarshal([]byte(`<data_block/>`))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected absent value, got %#v", got)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, _, err := Unmarshal([]byte(`<data_block key=>`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, _, err := Unmarshal([]byte(`not xml`)); err == nil {
		t.Fatal("expected error for input without root element")
	}
}

func TestEqual(t *testing.T) {
	a := Map{{Key: "x", Value: Scalar("1")}, {Key: "y", Value: List{Scalar("2")}}}
	b := Map{{Key: "y", Value: List{Scalar("2")}}, {Key: "x", Value: Scalar("1")}}
	if !Equal(a, b) {
		t.Error("maps differing only in order should be equal")
	}
	if Equal(List{Scalar("1"), Scalar("2")}, List{Scalar("2"), Scalar("1")}) {
		t.Error("lists in different order should differ")
	}
	if Equal(Map{}, List{}) {
		t.Error("empty map and empty list should differ")
	}
	if Equal(Scalar("1"), nil) {
		t.Error("scalar and absent should differ")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Map{{Key: "l", Value: List{Scalar("a")}}}
	c := Clone(orig).(Map)
	c[0].Value.(List)[0] = Scalar("changed")
	if s, _ := AsString(orig[0].Value.(List)[0]); s != "a" {
		t.Errorf("Clone shared storage, original now %q", s)
	}
}

func TestMapWith(t *testing.T) {
	m := Map{{Key: "a", Value: Scalar("1")}}
	m2 := m.With("a", Scalar("2")).With("b", Scalar("3"))
	if s, _ := m.GetString("a"); s != "1" {
		t.Errorf("With mutated receiver: a=%q", s)
	}
	if got := m2.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Keys = %v", got)
	}
	if s, _ := m2.GetString("a"); s != "2" {
		t.Errorf("a = %q, want 2", s)
	}
}
