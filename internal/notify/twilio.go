package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com"

// Twilio sends SMS through the Twilio messages API.
type Twilio struct {
	AccountSID string
	AuthToken  string
	FromPhone  string
	BaseURL    string // overridable for tests
	Client     *http.Client
}

func NewTwilio(sid, token, from string) *Twilio {
	if sid == "" || token == "" || from == "" {
		return nil
	}
	return &Twilio{
		AccountSID: sid,
		AuthToken:  token,
		FromPhone:  from,
		BaseURL:    twilioAPIBase,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Twilio) Send(ctx context.Context, to, msg string) error {
	if t == nil {
		return fmt.Errorf("twilio disabled")
	}
	msg = strings.TrimSpace(msg)
	if len(to) != 10 || msg == "" || len(msg) > 1600 {
		return fmt.Errorf("twilio: invalid destination or message")
	}

	form := url.Values{
		"From": {t.FromPhone},
		"To":   {"+1" + to},
		"Body": {msg},
	}
	endpoint := t.BaseURL + "/2010-04-01/Accounts/" + t.AccountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("twilio status %d", resp.StatusCode)
	}
	return nil
}
