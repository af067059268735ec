// Package currency provides interned, case-normalised currency symbol
// codes and base/quote currency pairs.
package currency

import (
	"encoding/json"
	"strings"
)

// Code is an interned, upper-cased currency symbol such as "BTC" or
// "ETH". The zero value is EMPTYCODE.
type Code struct {
	code string
}

// EMPTYCODE is the zero Code, returned when no currency applies.
var EMPTYCODE = Code{}

var registry = map[string]Code{}

// NewCode interns s, normalising case. Repeated calls with the same
// symbol (regardless of case) return an equal Code.
func NewCode(s string) Code {
	if s == "" {
		return EMPTYCODE
	}
	normalised := strings.ToUpper(strings.TrimSpace(s))
	if c, ok := registry[normalised]; ok {
		return c
	}
	c := Code{code: normalised}
	registry[normalised] = c
	return c
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return c.code
}

// IsEmpty reports whether c is the zero Code.
func (c Code) IsEmpty() bool {
	return c.code == ""
}

// Equal reports whether c and other refer to the same currency.
func (c Code) Equal(other Code) bool {
	return c.code == other.code
}

// MarshalJSON renders the code as its plain string form, since Code's
// only exported behaviour is through its accessor methods.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.code)
}

// UnmarshalJSON re-interns the decoded string through NewCode, so a
// round-tripped Code compares equal to one built directly.
func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = NewCode(s)
	return nil
}

// Common codes used throughout the tests and worked scenarios.
var (
	BTC  = NewCode("BTC")
	ETH  = NewCode("ETH")
	BNB  = NewCode("BNB")
	USDT = NewCode("USDT")
	USD  = NewCode("USD")
)
