package domain

import (
	"fmt"
	"strings"
)

var validMethods = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"delete": true,
}

// Normalize validates a check as read from the store and defaults the
// fields a never-probed record lacks: State becomes "down" and LastChecked
// stays nil. Stored records may predate probing, so only the fields the
// engine itself manages are defaulted; anything else missing or malformed
// makes the check ineligible and returns a non-nil error. The stored
// record is not touched either way.
func Normalize(c *Check) error {
	if len(strings.TrimSpace(c.ID)) != IDLength {
		return fmt.Errorf("check has malformed id %q", c.ID)
	}
	if len(strings.TrimSpace(c.Phone)) != PhoneLength {
		return fmt.Errorf("check %s: malformed phone %q", c.ID, c.Phone)
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return fmt.Errorf("check %s: unsupported protocol %q", c.ID, c.Protocol)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("check %s: missing url", c.ID)
	}
	if !validMethods[c.Method] {
		return fmt.Errorf("check %s: unsupported method %q", c.ID, c.Method)
	}
	if len(c.SuccessCodes) == 0 {
		return fmt.Errorf("check %s: empty success codes", c.ID)
	}
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 5 {
		return fmt.Errorf("check %s: timeout %d out of range [1,5]", c.ID, c.TimeoutSeconds)
	}
	if c.State != StateUp {
		c.State = StateDown
	}
	return nil
}
