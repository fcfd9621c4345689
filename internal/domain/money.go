package domain

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact signed amount in integer base units (e.g. cents).
// All balance arithmetic runs on Money; no floating point is involved
// anywhere. The zero value is usable and equals 0.
//
// Operations return fresh values and never mutate their receivers, so
// Money can be copied and used as a map value freely.
type Money struct {
	v *big.Int
}

var bigZero = new(big.Int)

// NewMoney creates a Money from int64 base units.
func NewMoney(units int64) Money {
	return Money{v: big.NewInt(units)}
}

// MoneyFromBig creates a Money from a big.Int, copying the value.
func MoneyFromBig(v *big.Int) Money {
	if v == nil {
		return Money{}
	}
	return Money{v: new(big.Int).Set(v)}
}

// ParseMoney parses a base-10 integer string of base units.
func ParseMoney(s string) (Money, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return Money{}, fmt.Errorf("%w: %q is not an integer amount", ErrInvalidAmount, s)
	}
	return Money{v: v}, nil
}

// MoneyFromDecimal converts a decimal amount to base units at the given
// scale (e.g. "12.50" at scale 2 becomes 1250). Amounts with residue
// below the scale are rejected rather than rounded.
func MoneyFromDecimal(d decimal.Decimal, scale int32) (Money, error) {
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), scale)
	}
	return Money{v: shifted.BigInt()}, nil
}

func (m Money) big() *big.Int {
	if m.v == nil {
		return bigZero
	}
	return m.v
}

// BigInt returns a copy of the amount as a big.Int.
func (m Money) BigInt() *big.Int {
	return new(big.Int).Set(m.big())
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{v: new(big.Int).Add(m.big(), o.big())}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{v: new(big.Int).Sub(m.big(), o.big())}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{v: new(big.Int).Neg(m.big())}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	return Money{v: new(big.Int).Abs(m.big())}
}

// MulCount returns m * n for a participant count n.
func (m Money) MulCount(n int) Money {
	return Money{v: new(big.Int).Mul(m.big(), big.NewInt(int64(n)))}
}

// DivCount returns the floor of m / n for a participant count n > 0.
// For the positive amounts used in expense splitting this is plain
// integer division with the remainder dropped.
func (m Money) DivCount(n int) Money {
	return Money{v: new(big.Int).Div(m.big(), big.NewInt(int64(n)))}
}

// ModCount returns the non-negative remainder of m / n for n > 0.
func (m Money) ModCount(n int) Money {
	return Money{v: new(big.Int).Mod(m.big(), big.NewInt(int64(n)))}
}

// Cmp compares m and o, returning -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	return m.big().Cmp(o.big())
}

// Sign returns -1, 0 or +1 depending on the sign of m.
func (m Money) Sign() int {
	return m.big().Sign()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.Sign() == 0 }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.Sign() > 0 }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.Sign() < 0 }

// Equal reports whether m == o.
func (m Money) Equal(o Money) bool { return m.Cmp(o) == 0 }

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// String returns the amount as a base-10 integer string.
func (m Money) String() string {
	return m.big().String()
}

// Decimal renders the amount at the given scale (1250 at scale 2 is "12.5").
func (m Money) Decimal(scale int32) decimal.Decimal {
	return decimal.NewFromBigInt(m.big(), -scale)
}

// MarshalJSON encodes the amount as a quoted base-10 string so precision
// survives JSON number handling in every client.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts a quoted or bare base-10 integer.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
