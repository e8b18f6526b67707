package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/uptimemon/internal/domain"
)

// checkFor builds an eligible check pointed at a httptest server URL.
func checkFor(t *testing.T, rawURL string, timeoutSeconds int) domain.Check {
	t.Helper()
	// httptest URLs look like http://127.0.0.1:port
	rest, ok := strings.CutPrefix(rawURL, "http://")
	if !ok {
		t.Fatalf("unexpected test server url %q", rawURL)
	}
	return domain.Check{
		ID:             strings.Repeat("a", domain.IDLength),
		Phone:          "5551234567",
		Protocol:       "http",
		URL:            rest,
		Method:         "get",
		SuccessCodes:   []int{200},
		TimeoutSeconds: timeoutSeconds,
	}
}

func TestHTTPProber_ResponseCode(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("want GET, got %s", r.Method)
		}
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	out := NewHTTPProber().Probe(context.Background(), checkFor(t, s.URL, 2))
	if out.Failed() {
		t.Fatalf("want success, got %+v", out)
	}
	if out.ResponseCode != 200 {
		t.Fatalf("want 200, got %d", out.ResponseCode)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %f", out.LatencyMS)
	}
}

func TestHTTPProber_Status500StillAnOutcome(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	out := NewHTTPProber().Probe(context.Background(), checkFor(t, s.URL, 2))
	if out.Failed() {
		t.Fatalf("500 is a response, not a transport error: %+v", out)
	}
	if out.ResponseCode != 500 {
		t.Fatalf("want 500, got %d", out.ResponseCode)
	}
}

func TestHTTPProber_TimeoutClassified(t *testing.T) {
	block := make(chan struct{})
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer s.Close()
	defer close(block)

	chk := checkFor(t, s.URL, 1)
	start := time.Now()
	out := NewHTTPProber().Probe(context.Background(), chk)
	elapsed := time.Since(start)

	if !out.Failed() || out.ErrKind != ErrTimeout {
		t.Fatalf("want timeout outcome, got %+v", out)
	}
	if out.ResponseCode != 0 {
		t.Fatalf("timeout must not carry a response code, got %d", out.ResponseCode)
	}
	if out.ErrMessage == "" {
		t.Fatalf("want non-empty error message")
	}
	if elapsed > 3*time.Second {
		t.Fatalf("probe hung past its timeout: %v", elapsed)
	}
}

func TestHTTPProber_ConnectionRefusedIsNetworkError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close() // nothing listens here anymore

	out := NewHTTPProber().Probe(context.Background(), checkFor(t, url, 2))
	if !out.Failed() || out.ErrKind != ErrNetwork {
		t.Fatalf("want network error, got %+v", out)
	}
	if out.ErrMessage == "" {
		t.Fatalf("want underlying description in ErrMessage")
	}
}

func TestHTTPProber_MethodUppercasedOnWire(t *testing.T) {
	var gotMethod string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := checkFor(t, s.URL, 2)
	chk.Method = "post"
	out := NewHTTPProber().Probe(context.Background(), chk)
	if out.Failed() || out.ResponseCode != 200 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("want POST on the wire, got %q", gotMethod)
	}
}
