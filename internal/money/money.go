package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a monetary value stored in minor units (centavos).
type Amount = int64

// Denomination is a single accepted bill or coin, in minor units.
type Denomination int64

// Accepted denominations, bills and coins, in PHP minor units.
const (
	Bill500    Denomination = 50000
	Bill200    Denomination = 20000
	Bill100    Denomination = 10000
	Bill50     Denomination = 5000
	Bill20     Denomination = 2000
	Coin10     Denomination = 1000
	Coin5      Denomination = 500
	Coin1      Denomination = 100
	Coin25Cent Denomination = 25
	Coin10Cent Denomination = 10
	Coin5Cent  Denomination = 5
)

// SmallestUnit is the smallest dispensable value. Change that cannot be
// expressed as a multiple of it cannot be made.
const SmallestUnit Amount = 5

var accepted = []Denomination{
	Bill500, Bill200, Bill100, Bill50, Bill20,
	Coin10, Coin5, Coin1,
	Coin25Cent, Coin10Cent, Coin5Cent,
}

// Accepted returns the canonical denomination set ordered highest to lowest.
// The set is a compatibility contract; callers must not mutate the slice.
func Accepted() []Denomination {
	out := make([]Denomination, len(accepted))
	copy(out, accepted)
	return out
}

// IsAccepted reports whether value exactly matches an accepted denomination.
// Matching is exact integer equality; there is no tolerance.
func IsAccepted(value Amount) bool {
	for _, d := range accepted {
		if Amount(d) == value {
			return true
		}
	}
	return false
}

// ToMinorUnits converts a decimal currency value to minor units, rounding
// half-up at the hundredths boundary.
func ToMinorUnits(major decimal.Decimal) Amount {
	return major.Shift(2).Round(0).IntPart()
}

// ToMajorUnits converts minor units back to a decimal currency value.
func ToMajorUnits(minor Amount) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Format renders minor units as a two-decimal display string, e.g. "186.40".
func Format(minor Amount) string {
	return ToMajorUnits(minor).StringFixed(2)
}

// Parse converts a display string such as "0.25" to minor units.
func Parse(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return ToMinorUnits(d), nil
}
