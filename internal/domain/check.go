package domain

import "time"

// State is the last known availability of a check.
type State string

const (
	StateUp   State = "up"
	StateDown State = "down"
)

// IDLength is the fixed length of check and token identifiers.
const IDLength = 20

// Check is one monitored endpoint plus its last known state. Accounts are
// keyed by phone number, so Phone doubles as the owner id and the contact
// the alert goes to.
type Check struct {
	ID             string     `json:"id"`
	Phone          string     `json:"phone"`
	Protocol       string     `json:"protocol"`
	URL            string     `json:"url"`
	Method         string     `json:"method"`
	SuccessCodes   []int      `json:"success_codes"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	State          State      `json:"state,omitempty"`
	LastChecked    *time.Time `json:"last_checked,omitempty"`
}

// AcceptsCode reports whether code counts as "up" for this check.
func (c *Check) AcceptsCode(code int) bool {
	for _, sc := range c.SuccessCodes {
		if sc == code {
			return true
		}
	}
	return false
}

// Target is the full URL the probe hits.
func (c *Check) Target() string {
	return c.Protocol + "://" + c.URL
}
