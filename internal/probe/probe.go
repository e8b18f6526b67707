package probe

import (
	"context"

	"github.com/hamed0406/uptimemon/internal/domain"
)

// ErrKind classifies a probe transport failure.
type ErrKind string

const (
	// ErrTimeout means the check's deadline elapsed with no response.
	ErrTimeout ErrKind = "timeout"
	// ErrNetwork covers every other transport failure: DNS, connection
	// refused or reset, TLS handshake errors.
	ErrNetwork ErrKind = "network"
)

// Outcome is the classified result of a single probe. Exactly one of
// ResponseCode and ErrKind is meaningful: ErrKind empty means a response
// arrived, otherwise ErrMessage carries the transport failure.
type Outcome struct {
	ResponseCode int
	ErrKind      ErrKind
	ErrMessage   string
	LatencyMS    float64
}

// Failed reports whether the probe ended in a transport failure.
func (o Outcome) Failed() bool { return o.ErrKind != "" }

// Prober performs a single probe for an eligible check.
type Prober interface {
	Probe(ctx context.Context, chk domain.Check) Outcome
}
