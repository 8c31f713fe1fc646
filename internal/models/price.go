package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxPrice is the largest value a numeric(5,2) column holds, in hundredths.
const MaxPrice Price = 99999

var (
	ErrPriceFormat    = errors.New("a valid number is required")
	ErrPricePrecision = errors.New("ensure that there are no more than 2 decimal places")
	ErrPriceRange     = errors.New("ensure that there are no more than 5 digits in total and the value is not negative")
)

// Price is a fixed-point amount in hundredths of the currency unit.
// It marshals to JSON as a two-decimal string and accepts a JSON number or string.
type Price int64

// ParsePrice parses a plain decimal such as "12.84", "7" or "0.5".
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrPriceFormat
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && !hasFrac {
		return 0, ErrPriceFormat
	}
	if strings.HasPrefix(whole, "-") {
		return 0, ErrPriceRange
	}
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) || (whole == "" && frac == "") {
		return 0, ErrPriceFormat
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > 2 {
		return 0, ErrPricePrecision
	}
	frac += strings.Repeat("0", 2-len(frac))

	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 3 {
		return 0, ErrPriceRange
	}
	n, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, ErrPriceFormat
	}
	return Price(n), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return ErrPriceFormat
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrPriceFormat
		}
		raw = s
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements the driver.Valuer interface
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements the sql.Scanner interface
func (p *Price) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = 0
		return nil
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	case float64:
		return p.scanString(strconv.FormatFloat(v, 'f', 2, 64))
	case int64:
		*p = Price(v * 100)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Price", value)
	}
}

func (p *Price) scanString(s string) error {
	parsed, err := ParsePrice(s)
	if err != nil {
		return fmt.Errorf("scan price %q: %w", s, err)
	}
	*p = parsed
	return nil
}
