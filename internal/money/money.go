// Package money converts between stored cents and major-unit amounts.
package money

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
)

// MaxCents is the largest accepted amount or budget, 100 billion in major units.
const MaxCents int64 = 10_000_000_000_000

var (
	printer  = message.NewPrinter(language.English)
	maxCents = decimal.NewFromInt(MaxCents)
)

// Amount is a value in cents that encodes as a major-unit JSON number (12.5).
type Amount int64

func (a Amount) Cents() int64 { return int64(a) }

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)

	c, err := ParseCents(string(data))
	if err != nil {
		return err
	}

	*a = Amount(c)

	return nil
}

// ParseCents parses a major-unit amount such as "12.5" into cents. More than
// two decimal places is rejected.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", apperr.ErrValidation, s)
	}

	return FromDecimal(d)
}

// FromDecimal converts a major-unit decimal into cents. Magnitudes above
// MaxCents are rejected.
func FromDecimal(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has more than two decimal places", apperr.ErrValidation, d)
	}

	if cents.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: amount %s is out of range", apperr.ErrValidation, d)
	}

	return cents.IntPart(), nil
}

// Format renders cents as a grouped dollar amount, e.g. "$25,000.00".
func Format(cents int64) string {
	v := decimal.New(cents, -2).InexactFloat64()
	return printer.Sprintf("$%v", number.Decimal(v, number.Scale(2)))
}
