package till

import (
	"errors"
	"fmt"

	"github.com/vendo-labs/vendo/internal/money"
)

// ErrInvalidDenomination is returned for values outside the accepted set.
var ErrInvalidDenomination = errors.New("till: invalid denomination")

// ErrInvalidQuantity is returned when a restock quantity is not positive.
var ErrInvalidQuantity = errors.New("till: invalid quantity")

// ErrInsufficientQuantity indicates a denomination slot holds fewer units than requested.
var ErrInsufficientQuantity = errors.New("till: insufficient quantity")

// ErrExactChangeUnavailable indicates the requested amount cannot be composed
// from the available denominations. The till is left unchanged.
var ErrExactChangeUnavailable = errors.New("till: exact change unavailable")

// Slot is one denomination and the number of units on hand.
type Slot struct {
	Denomination money.Denomination
	Count        int
}

// Dispensed records how many units of one denomination a withdrawal produced.
type Dispensed struct {
	Denomination money.Denomination
	Count        int
}

// Breakdown lists dispensed denominations, highest first.
type Breakdown []Dispensed

// Total returns the monetary value of the breakdown in minor units.
func (b Breakdown) Total() money.Amount {
	var total money.Amount
	for _, d := range b {
		total += money.Amount(d.Denomination) * money.Amount(d.Count)
	}
	return total
}

// Till holds per-denomination cash counts. Slots are ordered highest
// denomination first; dispensing depends on that order.
type Till struct {
	slots []Slot
}

// New builds a till covering the full accepted denomination set, seeded with
// the provided counts. Denominations absent from counts start at zero.
func New(counts map[money.Denomination]int) (*Till, error) {
	t := &Till{slots: make([]Slot, 0, len(money.Accepted()))}
	for _, d := range money.Accepted() {
		c := counts[d]
		if c < 0 {
			return nil, fmt.Errorf("%w: %d units of %s", ErrInvalidQuantity, c, money.Format(money.Amount(d)))
		}
		t.slots = append(t.slots, Slot{Denomination: d, Count: c})
	}
	for d := range counts {
		if !money.IsAccepted(money.Amount(d)) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDenomination, money.Format(money.Amount(d)))
		}
	}
	return t, nil
}

// Deposit adds one unit of the denomination. Tracking the customer's inserted
// total is the caller's responsibility.
func (t *Till) Deposit(d money.Denomination) error {
	slot := t.slot(d)
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrInvalidDenomination, money.Format(money.Amount(d)))
	}
	slot.Count++
	return nil
}

// Restock adds quantity units of the denomination.
func (t *Till) Restock(d money.Denomination, quantity int) error {
	slot := t.slot(d)
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrInvalidDenomination, money.Format(money.Amount(d)))
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	slot.Count += quantity
	return nil
}

// Dispense removes the exact amount from the till using a greedy walk from
// the highest denomination down. The operation is atomic: when the exact
// amount cannot be composed every decrement is rolled back and
// ErrExactChangeUnavailable is returned.
//
// The greedy policy is correct for the canonical PHP denomination set given
// sufficient supply; it is not guaranteed optimal or complete for arbitrary
// denomination sets.
func (t *Till) Dispense(amount money.Amount) (Breakdown, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount %s", ErrInvalidQuantity, money.Format(amount))
	}
	remaining := amount
	taken := make([]int, len(t.slots))

	for i := range t.slots {
		slot := &t.slots[i]
		value := money.Amount(slot.Denomination)
		for remaining >= value && slot.Count > 0 {
			remaining -= value
			slot.Count--
			taken[i]++
		}
		if remaining < money.SmallestUnit {
			break
		}
	}

	if remaining > 0 {
		for i, n := range taken {
			t.slots[i].Count += n
		}
		return nil, fmt.Errorf("%w: %s short of %s", ErrExactChangeUnavailable,
			money.Format(remaining), money.Format(amount))
	}

	breakdown := make(Breakdown, 0, len(taken))
	for i, n := range taken {
		if n > 0 {
			breakdown = append(breakdown, Dispensed{Denomination: t.slots[i].Denomination, Count: n})
		}
	}
	return breakdown, nil
}

// CanDispense reports whether Dispense(amount) would succeed, without
// mutating the till.
func (t *Till) CanDispense(amount money.Amount) bool {
	if amount <= 0 {
		return false
	}
	remaining := amount
	for _, slot := range t.slots {
		value := money.Amount(slot.Denomination)
		count := slot.Count
		for remaining >= value && count > 0 {
			remaining -= value
			count--
		}
		if remaining < money.SmallestUnit {
			break
		}
	}
	return remaining == 0
}

// WithdrawByAmount is the staff cash-out variant of Dispense. Same greedy
// walk, same atomic rollback.
func (t *Till) WithdrawByAmount(amount money.Amount) (Breakdown, error) {
	return t.Dispense(amount)
}

// WithdrawByDenomination removes quantity units of a single denomination.
func (t *Till) WithdrawByDenomination(d money.Denomination, quantity int) error {
	slot := t.slot(d)
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrInvalidDenomination, money.Format(money.Amount(d)))
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if quantity > slot.Count {
		return fmt.Errorf("%w: requested %d of %s, have %d", ErrInsufficientQuantity,
			quantity, money.Format(money.Amount(d)), slot.Count)
	}
	slot.Count -= quantity
	return nil
}

// Snapshot returns a copy of every slot, highest denomination first.
func (t *Till) Snapshot() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// TotalValue returns the total cash on hand in minor units.
func (t *Till) TotalValue() money.Amount {
	var total money.Amount
	for _, slot := range t.slots {
		total += money.Amount(slot.Denomination) * money.Amount(slot.Count)
	}
	return total
}

func (t *Till) slot(d money.Denomination) *Slot {
	for i := range t.slots {
		if t.slots[i].Denomination == d {
			return &t.slots[i]
		}
	}
	return nil
}
