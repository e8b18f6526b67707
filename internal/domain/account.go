package domain

import "time"

// PhoneLength is the number of digits in an account phone number.
const PhoneLength = 10

// Account is a registered user. The phone number is the record id.
type Account struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone"`
	HashedPassword string   `json:"hashed_password,omitempty"`
	TOSAgreement   bool     `json:"tos_agreement"`
	Checks         []string `json:"checks,omitempty"`
}

// Token is a short-lived auth token bound to one account.
type Token struct {
	ID      string    `json:"id"`
	Phone   string    `json:"phone"`
	Expires time.Time `json:"expires"`
}

// Valid reports whether the token belongs to phone and has not expired.
func (t *Token) Valid(phone string, now time.Time) bool {
	return t.Phone == phone && now.Before(t.Expires)
}
