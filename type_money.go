package vendas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is the currency used by FormatAmount.
const DefaultCurrency = "BRL"

// amountTemplate places a space between the currency symbol and the value ("R$ 10,00").
const amountTemplate = "$ 1"

// Amount is a monetary value as persisted in the ledger.
//
// An Amount decoded from something that is not a number is kept verbatim so
// that it survives a load/save cycle, but it is not Valid and every sum skips
// it.
type Amount struct {
	value   decimal.Decimal
	invalid bool
	raw     json.RawMessage
}

// A returns a valid Amount.
func A[T float64 | int | int64 | decimal.Decimal](v T) Amount {
	return Amount{value: newDecimal(v)}
}

func newDecimal[T float64 | int | int64 | decimal.Decimal](v T) decimal.Decimal {
	switch x := any(v).(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case decimal.Decimal:
		return x
	}
	return decimal.Zero
}

// Valid reports whether the amount holds a number.
func (a Amount) Valid() bool { return !a.invalid }

// Decimal returns the amount value, zero when the amount is not valid.
func (a Amount) Decimal() decimal.Decimal {
	if a.invalid {
		return decimal.Zero
	}
	return a.value
}

func (a Amount) IsPositive() bool { return a.Valid() && a.value.IsPositive() }
func (a Amount) Equal(b Amount) bool {
	return a.Valid() == b.Valid() && a.Decimal().Equal(b.Decimal())
}

// String returns the amount formatted in the default currency.
func (a Amount) String() string { return FormatAmount(a) }

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.invalid {
		return a.raw, nil
	}
	return a.value.MarshalJSON()
}

// UnmarshalJSON accepts JSON numbers and numeric strings. Anything else is
// retained as an invalid amount instead of failing the whole document.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err == nil {
		*a = Amount{value: d}
		return nil
	}
	*a = Amount{invalid: true, raw: append(json.RawMessage(nil), raw...)}
	return nil
}

// ParseAmount parses a user typed amount. Both "," and "." are accepted as the
// decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// FormatAmount renders a monetary value with two decimals, grouped thousands
// and the separators of DefaultCurrency, e.g. "R$ 1.234,56".
//
// v can be an Amount, a decimal.Decimal, a float64, an int or a numeric
// string. Anything else, or an invalid Amount, formats as zero.
func FormatAmount(v any) string {
	var d decimal.Decimal
	switch x := v.(type) {
	case Amount:
		d = x.Decimal()
	case *Amount:
		if x != nil {
			d = x.Decimal()
		}
	case decimal.Decimal:
		d = x
	case float64:
		d = decimal.NewFromFloat(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case string:
		if p, err := ParseAmount(x); err == nil {
			d = p
		}
	}
	return formatCurrency(d, DefaultCurrency)
}

func formatCurrency(d decimal.Decimal, code string) string {
	// GetCurrency returns nil for unknown codes, New always returns a usable one.
	cur := *money.New(0, code).Currency()
	f := money.NewFormatter(cur.Fraction, cur.Decimal, cur.Thousand, cur.Grapheme, amountTemplate)
	return f.Format(d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction)).IntPart())
}
