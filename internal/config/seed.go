package config

// DefaultTillFloat is the per-denomination unit count the register opens with.
const DefaultTillFloat = 10

const defaultStaffPasscode = "123456"

// DefaultCatalogSeed returns the stock silog menu used when CATALOG_ITEMS is
// not set.
func DefaultCatalogSeed() []SeedItem {
	return []SeedItem{
		{ID: 1, Name: "Hotdog", Price: 950, Stock: 5},
		{ID: 2, Name: "Longganisa", Price: 2075, Stock: 3},
		{ID: 3, Name: "Bacon", Price: 1200, Stock: 2},
		{ID: 4, Name: "Sausage", Price: 3500, Stock: 1},
		{ID: 5, Name: "Tapa", Price: 2250, Stock: 0},
		{ID: 6, Name: "Tocino", Price: 1800, Stock: 6},
		{ID: 7, Name: "Rice", Price: 1500, Stock: 8},
		{ID: 8, Name: "Egg", Price: 800, Stock: 10},
	}
}
