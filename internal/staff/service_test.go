package staff_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vendo-labs/vendo/internal/catalog"
	"github.com/vendo-labs/vendo/internal/money"
	"github.com/vendo-labs/vendo/internal/staff"
	"github.com/vendo-labs/vendo/internal/till"
)

func newService(t *testing.T) *staff.Service {
	t.Helper()

	cat, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Hotdog", Price: 950, Stock: 5},
		{ID: 6, Name: "Tocino", Price: 1800, Stock: 6},
	})
	require.NoError(t, err)

	reg, err := till.New(map[money.Denomination]int{money.Bill100: 3, money.Coin5: 4})
	require.NoError(t, err)

	hash, err := argon2id.CreateHash("123456", argon2id.DefaultParams)
	require.NoError(t, err)

	return &staff.Service{
		Catalog:      cat,
		Till:         reg,
		PasscodeHash: hash,
		Log:          zerolog.Nop(),
	}
}

func TestUnlockRejectsWrongPasscode(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	require.ErrorIs(t, svc.Unlock("000000"), staff.ErrAccessDenied)

	_, err := svc.Inventory()
	require.ErrorIs(t, err, staff.ErrLocked)
}

func TestOperationsRequireUnlock(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.SetPrice(ctx, 1, 1000), staff.ErrLocked)
	require.ErrorIs(t, svc.RestockItem(ctx, 1, 5), staff.ErrLocked)
	require.ErrorIs(t, svc.RestockRegister(ctx, money.Coin5, 5), staff.ErrLocked)
	_, err := svc.CashOutAmount(ctx, 10000)
	require.ErrorIs(t, err, staff.ErrLocked)
	require.ErrorIs(t, svc.ExportInventory(ctx, &strings.Builder{}), staff.ErrLocked)
}

func TestMaintenanceFlow(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Unlock("123456"))

	require.NoError(t, svc.SetPrice(ctx, 1, 1100))
	require.ErrorIs(t, svc.SetPrice(ctx, 1, 0), catalog.ErrInvalidPrice)

	require.NoError(t, svc.RestockItem(ctx, 6, 4))
	require.ErrorIs(t, svc.RestockItem(ctx, 6, 0), staff.ErrInvalidQuantity)
	require.ErrorIs(t, svc.RestockItem(ctx, 99, 1), catalog.ErrNotFound)

	items, err := svc.Inventory()
	require.NoError(t, err)
	require.Equal(t, money.Amount(1100), items[0].Price)
	require.Equal(t, 10, items[1].Stock)

	require.NoError(t, svc.RestockRegister(ctx, money.Coin5, 6))
	total, err := svc.RegisterTotal()
	require.NoError(t, err)
	require.Equal(t, money.Amount(35000), total)

	breakdown, err := svc.CashOutAmount(ctx, 20500)
	require.NoError(t, err)
	require.Equal(t, money.Amount(20500), breakdown.Total())

	require.NoError(t, svc.CashOutDenomination(ctx, money.Bill100, 1))
	require.ErrorIs(t, svc.CashOutDenomination(ctx, money.Bill100, 5), till.ErrInsufficientQuantity)
}

func TestLockRelocks(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	require.NoError(t, svc.Unlock("123456"))
	svc.Lock()
	_, err := svc.RegisterTotal()
	require.ErrorIs(t, err, staff.ErrLocked)
}

func TestExportInventoryCSV(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	require.NoError(t, svc.Unlock("123456"))

	var sb strings.Builder
	require.NoError(t, svc.ExportInventory(context.Background(), &sb))
	require.True(t, strings.HasPrefix(sb.String(), "Item Number,Item Name,Price (PHP),Stock Left\n"))
	require.Contains(t, sb.String(), "1,Hotdog,9.50,5\n")
}
