package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Money is an amount in cents. Listing and bid prices follow a decimal(8,2)
// column: at most six whole digits and two fractional digits.
type Money int64

var moneyPattern = regexp.MustCompile(`^(\d{1,6})(?:\.(\d{0,2}))?$`)

// ParseMoney parses a non-negative decimal amount such as "20", "20.5" or
// "20.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	m := moneyPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidInput, s)
	}

	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidInput, s)
	}

	frac := m[2]
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidInput, s)
	}

	return Money(whole*100 + cents), nil
}

// Whole returns the amount's whole units.
func (m Money) Whole() int64 { return int64(m) / 100 }

// Cents returns the fractional part in cents.
func (m Money) Cents() int64 { return int64(m) % 100 }

// String formats the amount as a plain decimal, e.g. "1234.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.Whole(), m.Cents())
}
