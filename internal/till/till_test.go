package till_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vendo-labs/vendo/internal/money"
	"github.com/vendo-labs/vendo/internal/till"
)

func seeded(t *testing.T, counts map[money.Denomination]int) *till.Till {
	t.Helper()
	reg, err := till.New(counts)
	require.NoError(t, err)
	return reg
}

func oneOfEachExcept200(t *testing.T) *till.Till {
	t.Helper()
	counts := make(map[money.Denomination]int)
	for _, d := range money.Accepted() {
		counts[d] = 1
	}
	counts[money.Bill200] = 0
	return seeded(t, counts)
}

func TestDispenseGreedyBreakdown(t *testing.T) {
	t.Parallel()

	// One each of {500,100,50,20,10,5,1,0.25,0.10,0.05}; 186.40 consumes
	// everything below the 500 bill exactly.
	reg := oneOfEachExcept200(t)

	breakdown, err := reg.Dispense(18640)
	require.NoError(t, err)
	require.Equal(t, money.Amount(18640), breakdown.Total())

	want := till.Breakdown{
		{Denomination: money.Bill100, Count: 1},
		{Denomination: money.Bill50, Count: 1},
		{Denomination: money.Bill20, Count: 1},
		{Denomination: money.Coin10, Count: 1},
		{Denomination: money.Coin5, Count: 1},
		{Denomination: money.Coin1, Count: 1},
		{Denomination: money.Coin25Cent, Count: 1},
		{Denomination: money.Coin10Cent, Count: 1},
		{Denomination: money.Coin5Cent, Count: 1},
	}
	require.Equal(t, want, breakdown)

	// Only the 500 bill remains.
	require.Equal(t, money.Amount(50000), reg.TotalValue())
}

func TestDispenseFailureLeavesTillUntouched(t *testing.T) {
	t.Parallel()

	reg := seeded(t, map[money.Denomination]int{
		money.Bill100:    2,
		money.Coin25Cent: 1,
	})
	before := reg.Snapshot()

	// 150.00 cannot be composed from two 100 bills and a quarter.
	_, err := reg.Dispense(15000)
	require.ErrorIs(t, err, till.ErrExactChangeUnavailable)

	if diff := cmp.Diff(before, reg.Snapshot()); diff != "" {
		t.Fatalf("till mutated by failed dispense (-before +after):\n%s", diff)
	}
}

func TestDispenseRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	reg := seeded(t, map[money.Denomination]int{money.Bill20: 5})
	_, err := reg.Dispense(0)
	require.ErrorIs(t, err, till.ErrInvalidQuantity)
	_, err = reg.Dispense(-500)
	require.ErrorIs(t, err, till.ErrInvalidQuantity)
}

func TestCanDispenseMatchesDispense(t *testing.T) {
	t.Parallel()

	reg := oneOfEachExcept200(t)
	require.True(t, reg.CanDispense(18640))
	require.False(t, reg.CanDispense(3))

	before := reg.Snapshot()
	require.False(t, reg.CanDispense(100000))
	if diff := cmp.Diff(before, reg.Snapshot()); diff != "" {
		t.Fatalf("CanDispense mutated the till:\n%s", diff)
	}
}

func TestDepositIncrementsMatchingSlot(t *testing.T) {
	t.Parallel()

	reg := seeded(t, nil)
	require.NoError(t, reg.Deposit(money.Bill20))
	require.NoError(t, reg.Deposit(money.Bill20))
	require.NoError(t, reg.Deposit(money.Coin25Cent))
	require.Equal(t, money.Amount(4025), reg.TotalValue())

	err := reg.Deposit(money.Denomination(300))
	require.ErrorIs(t, err, till.ErrInvalidDenomination)
}

func TestRestockValidation(t *testing.T) {
	t.Parallel()

	reg := seeded(t, nil)
	require.NoError(t, reg.Restock(money.Coin5, 10))
	require.Equal(t, money.Amount(5000), reg.TotalValue())

	require.ErrorIs(t, reg.Restock(money.Coin5, 0), till.ErrInvalidQuantity)
	require.ErrorIs(t, reg.Restock(money.Coin5, -3), till.ErrInvalidQuantity)
	require.ErrorIs(t, reg.Restock(money.Denomination(7), 1), till.ErrInvalidDenomination)
}

func TestWithdrawByDenomination(t *testing.T) {
	t.Parallel()

	reg := seeded(t, map[money.Denomination]int{money.Bill50: 4})
	require.NoError(t, reg.WithdrawByDenomination(money.Bill50, 3))
	require.Equal(t, money.Amount(5000), reg.TotalValue())

	require.ErrorIs(t, reg.WithdrawByDenomination(money.Bill50, 2), till.ErrInsufficientQuantity)
	require.ErrorIs(t, reg.WithdrawByDenomination(money.Bill50, 0), till.ErrInvalidQuantity)
	require.ErrorIs(t, reg.WithdrawByDenomination(money.Denomination(42), 1), till.ErrInvalidDenomination)
}

func TestWithdrawByAmountIsAtomic(t *testing.T) {
	t.Parallel()

	reg := seeded(t, map[money.Denomination]int{money.Bill500: 1, money.Bill20: 1})
	before := reg.Snapshot()

	_, err := reg.WithdrawByAmount(52500)
	require.ErrorIs(t, err, till.ErrExactChangeUnavailable)
	if diff := cmp.Diff(before, reg.Snapshot()); diff != "" {
		t.Fatalf("failed withdraw mutated the till:\n%s", diff)
	}

	breakdown, err := reg.WithdrawByAmount(52000)
	require.NoError(t, err)
	require.Equal(t, money.Amount(52000), breakdown.Total())
	require.Equal(t, money.Amount(0), reg.TotalValue())
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	_, err := till.New(map[money.Denomination]int{money.Bill20: -1})
	require.ErrorIs(t, err, till.ErrInvalidQuantity)

	_, err = till.New(map[money.Denomination]int{money.Denomination(33): 1})
	require.ErrorIs(t, err, till.ErrInvalidDenomination)
}
