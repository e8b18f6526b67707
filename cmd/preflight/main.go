// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	tlsAddr := strings.TrimSpace(os.Getenv("API_TLS_ADDR"))
	tlsCert := strings.TrimSpace(os.Getenv("TLS_CERT_FILE"))
	tlsKey := strings.TrimSpace(os.Getenv("TLS_KEY_FILE"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	twilioSID := strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	twilioToken := strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN"))
	twilioFrom := strings.TrimSpace(os.Getenv("TWILIO_FROM_PHONE"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))

	if apiAddr == "" {
		warn("API_ADDR is empty; the server defaults to 127.0.0.1:8080.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if tlsAddr != "" {
		if tlsCert == "" || tlsKey == "" {
			fail("API_TLS_ADDR is set but TLS_CERT_FILE/TLS_KEY_FILE are missing (TLS listener will not start).")
		}
		for name, path := range map[string]string{"TLS_CERT_FILE": tlsCert, "TLS_KEY_FILE": tlsKey} {
			if _, err := os.Stat(path); err != nil {
				fail(name + " does not point to a readable file: " + path)
			}
		}
		ok("TLS listener configured on " + tlsAddr)
	}

	if db != "" && redisAddr != "" {
		warn("Both DATABASE_URL and REDIS_ADDR are set; DATABASE_URL wins and redis is ignored.")
	}
	switch {
	case db != "":
		ok("store backend: postgres")
	case redisAddr != "":
		ok("store backend: redis at " + redisAddr)
	default:
		warn("No DATABASE_URL or REDIS_ADDR; falling back to the local file store.")
	}

	twilioSet := 0
	for _, v := range []string{twilioSID, twilioToken, twilioFrom} {
		if v != "" {
			twilioSet++
		}
	}
	switch twilioSet {
	case 3:
		ok("twilio notifier configured")
	case 0:
		// fine, maybe slack-only
	default:
		fail("Partial twilio config: set all of TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_PHONE or none.")
	}
	if slack != "" {
		ok("slack notifier configured")
	}
	if twilioSet == 0 && slack == "" {
		warn("No notifier configured; state transitions will be logged but nobody gets alerted.")
	}

	ok("preflight passed")
}
