package types

import (
	"encoding/json"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{"0", 0, false},
		{"1", 1000, false},
		{"2.5", 2500, false},
		{"-3.125", -3125, false},
		{"0.0005", 0, false}, // truncated beyond scale
		{"100.250", 100250, false},
		{"+7", 7000, false},
		{".5", 500, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseQuantity(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestQuantityString(t *testing.T) {
	if s := Quantity(2500).String(); s != "2.500" {
		t.Errorf("String() = %q, want 2.500", s)
	}
	if s := Quantity(-125).String(); s != "-0.125" {
		t.Errorf("String() = %q, want -0.125", s)
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Qty Quantity `json:"qty"`
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"qty": "12.345"}`), &w); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if w.Qty != 12345 {
		t.Fatalf("qty = %d, want 12345", w.Qty)
	}

	out, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"qty":12.345}` {
		t.Fatalf("marshal = %s", out)
	}
}
