package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTwilio_SendsFormPayload(t *testing.T) {
	var gotTo, gotBody, gotUser string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		gotUser, _, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	tw := NewTwilio("ACxxx", "tok", "+15005550006")
	tw.BaseURL = ts.URL

	err := tw.Send(context.Background(), "5551234567", "Alert: your check is down")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotTo != "+15551234567" {
		t.Fatalf("want +1-prefixed destination, got %q", gotTo)
	}
	if gotBody != "Alert: your check is down" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if gotUser != "ACxxx" {
		t.Fatalf("want basic auth user ACxxx, got %q", gotUser)
	}
}

func TestTwilio_NonSuccessStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	tw := NewTwilio("ACxxx", "tok", "+15005550006")
	tw.BaseURL = ts.URL
	if err := tw.Send(context.Background(), "5551234567", "x"); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestTwilio_RejectsBadInput(t *testing.T) {
	tw := NewTwilio("ACxxx", "tok", "+15005550006")
	if err := tw.Send(context.Background(), "123", "msg"); err == nil {
		t.Fatalf("short phone should be rejected")
	}
	if err := tw.Send(context.Background(), "5551234567", "  "); err == nil {
		t.Fatalf("empty message should be rejected")
	}
}

func TestNewTwilio_MissingCredsDisabled(t *testing.T) {
	if tw := NewTwilio("", "tok", "+1"); tw != nil {
		t.Fatalf("missing sid should disable twilio")
	}
}

func TestMulti_FansOutAndKeepsFirstError(t *testing.T) {
	calls := 0
	ok := notifierFunc(func(ctx context.Context, to, msg string) error {
		calls++
		return nil
	})
	bad := notifierFunc(func(ctx context.Context, to, msg string) error {
		calls++
		return context.DeadlineExceeded
	})

	err := Multi{nil, bad, ok}.Send(context.Background(), "5551234567", "m")
	if calls != 2 {
		t.Fatalf("want both transports attempted, got %d", calls)
	}
	if err != context.DeadlineExceeded {
		t.Fatalf("want first error surfaced, got %v", err)
	}
}

type notifierFunc func(ctx context.Context, to, msg string) error

func (f notifierFunc) Send(ctx context.Context, to, msg string) error { return f(ctx, to, msg) }
