package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vendo-labs/vendo/internal/catalog"
)

func menu(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Hotdog", Price: 950, Stock: 5},
		{ID: 2, Name: "Longganisa", Price: 2075, Stock: 3},
		{ID: 5, Name: "Tapa", Price: 2250, Stock: 0},
	})
	require.NoError(t, err)
	return c
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	c := menu(t)
	it, err := c.FindByID(2)
	require.NoError(t, err)
	require.Equal(t, "Longganisa", it.Name)

	_, err = c.FindByID(99)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestFindByIDReturnsCopy(t *testing.T) {
	t.Parallel()

	c := menu(t)
	it, err := c.FindByID(1)
	require.NoError(t, err)
	it.Stock = 0
	it.Price = 1

	again, err := c.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, 5, again.Stock)
	require.Equal(t, int64(950), again.Price)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	t.Parallel()

	c := menu(t)
	require.NoError(t, c.AdjustStock(1, -5))

	err := c.AdjustStock(1, -1)
	require.ErrorIs(t, err, catalog.ErrInsufficientStock)

	it, err := c.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, 0, it.Stock)

	require.ErrorIs(t, c.AdjustStock(42, 1), catalog.ErrNotFound)
}

func TestSetPrice(t *testing.T) {
	t.Parallel()

	c := menu(t)
	require.NoError(t, c.SetPrice(1, 1000))
	it, err := c.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, int64(1000), it.Price)

	require.ErrorIs(t, c.SetPrice(1, 0), catalog.ErrInvalidPrice)
	require.ErrorIs(t, c.SetPrice(1, -50), catalog.ErrInvalidPrice)
	require.ErrorIs(t, c.SetPrice(77, 1000), catalog.ErrNotFound)
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	_, err := catalog.New([]catalog.Item{
		{ID: 1, Name: "Hotdog", Price: 950, Stock: 5},
		{ID: 1, Name: "Bacon", Price: 1200, Stock: 2},
	})
	require.ErrorIs(t, err, catalog.ErrDuplicateID)
}

func TestListAllPreservesSeedOrder(t *testing.T) {
	t.Parallel()

	items := menu(t).ListAll()
	require.Len(t, items, 3)
	require.Equal(t, []int{1, 2, 5}, []int{items[0].ID, items[1].ID, items[2].ID})
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	require.NoError(t, menu(t).ExportCSV(&sb))

	want := "Item Number,Item Name,Price (PHP),Stock Left\n" +
		"1,Hotdog,9.50,5\n" +
		"2,Longganisa,20.75,3\n" +
		"5,Tapa,22.50,0\n"
	require.Equal(t, want, sb.String())
}
