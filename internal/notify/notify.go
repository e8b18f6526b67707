package notify

import "context"

// Notifier delivers an alert message to a contact identifier. The engine
// does not interpret delivery failures beyond logging them.
type Notifier interface {
	Send(ctx context.Context, to, msg string) error
}

// Multi fans an alert out to several transports; the first error wins
// but every transport is attempted.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, to, msg string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, to, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
