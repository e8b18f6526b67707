package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func eligibleCheck() Check {
	return Check{
		ID:             strings.Repeat("a", IDLength),
		Phone:          "5551234567",
		Protocol:       "https",
		URL:            "example.com/health",
		Method:         "get",
		SuccessCodes:   []int{200, 201},
		TimeoutSeconds: 2,
	}
}

func TestNormalize_DefaultsStateAndKeepsLastChecked(t *testing.T) {
	c := eligibleCheck()
	if err := Normalize(&c); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.State != StateDown {
		t.Fatalf("want default state down, got %q", c.State)
	}
	if c.LastChecked != nil {
		t.Fatalf("want LastChecked to stay nil, got %v", c.LastChecked)
	}

	// an already-up check keeps its state
	c2 := eligibleCheck()
	c2.State = StateUp
	if err := Normalize(&c2); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c2.State != StateUp {
		t.Fatalf("want up preserved, got %q", c2.State)
	}
}

func TestNormalize_RejectsMalformedFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Check)
	}{
		{"short id", func(c *Check) { c.ID = "short" }},
		{"bad phone", func(c *Check) { c.Phone = "123" }},
		{"bad protocol", func(c *Check) { c.Protocol = "ftp" }},
		{"empty url", func(c *Check) { c.URL = "  " }},
		{"bad method", func(c *Check) { c.Method = "PATCH" }},
		{"no success codes", func(c *Check) { c.SuccessCodes = nil }},
		{"timeout too low", func(c *Check) { c.TimeoutSeconds = 0 }},
		{"timeout too high", func(c *Check) { c.TimeoutSeconds = 6 }},
	}
	for _, tc := range cases {
		c := eligibleCheck()
		tc.mutate(&c)
		if err := Normalize(&c); err == nil {
			t.Fatalf("%s: want rejection, got nil", tc.name)
		}
	}
}

func TestCheck_AcceptsCode(t *testing.T) {
	c := eligibleCheck()
	if !c.AcceptsCode(200) || !c.AcceptsCode(201) {
		t.Fatalf("expected 200 and 201 accepted")
	}
	if c.AcceptsCode(500) {
		t.Fatalf("500 should not be accepted")
	}
}

func TestCheck_JSONRoundTrip(t *testing.T) {
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	want := eligibleCheck()
	want.State = StateUp
	want.LastChecked = &at

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Check
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != want.ID || got.State != want.State || got.LastChecked == nil ||
		!got.LastChecked.Equal(at) || got.Target() != "https://example.com/health" {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
}

func TestCheck_LastCheckedOmittedWhenNeverProbed(t *testing.T) {
	c := eligibleCheck()
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "last_checked") {
		t.Fatalf("never-probed check should omit last_checked: %s", b)
	}
}

func TestNewID(t *testing.T) {
	a := NewID(IDLength)
	b := NewID(IDLength)
	if len(a) != IDLength || len(b) != IDLength {
		t.Fatalf("want length %d, got %d/%d", IDLength, len(a), len(b))
	}
	if a == b {
		t.Fatalf("two ids should differ: %q", a)
	}
	for _, r := range a {
		if !strings.ContainsRune(idAlphabet, r) {
			t.Fatalf("unexpected rune %q in id", r)
		}
	}
}
