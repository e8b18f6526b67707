package probe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/uptimemon/internal/domain"
)

// HTTPProber issues one outbound request per probe. The timeout comes
// from the check itself (1-5s), so the shared client carries none; each
// probe runs under its own deadline context. The synchronous Do call
// yields exactly one Outcome per probe, so no late timeout or error
// event can produce a second one.
type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{Client: &http.Client{}}
}

func (p *HTTPProber) Probe(ctx context.Context, chk domain.Check) Outcome {
	timeout := time.Duration(chk.TimeoutSeconds) * time.Second
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(cctx, strings.ToUpper(chk.Method), chk.Target(), nil)
	if err != nil {
		return Outcome{ErrKind: ErrNetwork, ErrMessage: err.Error()}
	}
	resp, err := p.Client.Do(req)
	lat := time.Since(start).Seconds() * 1000
	if err != nil {
		return Outcome{ErrKind: classify(err), ErrMessage: err.Error(), LatencyMS: lat}
	}
	defer resp.Body.Close()

	return Outcome{ResponseCode: resp.StatusCode, LatencyMS: lat}
}

func classify(err error) ErrKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrNetwork
}
