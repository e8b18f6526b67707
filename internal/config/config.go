package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string // HTTP bind address
	TLSAddr       string // HTTPS bind address; empty disables the TLS listener
	TLSCert       string // path to PEM certificate
	TLSKey        string // path to PEM key
	LogDir        string // logs directory
	DataDir       string // file store directory (used when no DB is configured)
	DatabaseURL   string // postgres DSN; non-empty selects the postgres store
	RedisAddr     string // redis host:port; non-empty selects the redis store
	RedisPassword string
	SweepInterval time.Duration // how often the engine sweeps all checks
	Concurrency   int           // max in-flight probes per sweep
	MaxChecks     int           // per-account check cap

	TwilioSID    string
	TwilioToken  string
	TwilioFrom   string
	SlackWebhook string
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = ".data"
	}

	interval := 60 * time.Second
	if v := os.Getenv("SWEEP_INTERVAL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	concurrency := 32
	if v := os.Getenv("MAX_CONCURRENT_PROBES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	maxChecks := 5
	if v := os.Getenv("MAX_CHECKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxChecks = n
		}
	}

	return Config{
		Addr:          addr,
		TLSAddr:       os.Getenv("API_TLS_ADDR"),
		TLSCert:       os.Getenv("TLS_CERT_FILE"),
		TLSKey:        os.Getenv("TLS_KEY_FILE"),
		LogDir:        logDir,
		DataDir:       dataDir,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SweepInterval: interval,
		Concurrency:   concurrency,
		MaxChecks:     maxChecks,
		TwilioSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:    os.Getenv("TWILIO_FROM_PHONE"),
		SlackWebhook:  os.Getenv("SLACK_WEBHOOK"),
	}
}
