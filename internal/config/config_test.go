package config_test

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/vendo-labs/vendo/internal/config"
	"github.com/vendo-labs/vendo/internal/money"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":        "",
		"CATALOG_ITEMS":  "",
		"TILL_FLOAT":     "",
		"STAFF_PASSCODE": "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "vendo", cfg.MetricsNamespace)
	require.Equal(t, config.DefaultTillFloat, cfg.TillFloat)
	require.Len(t, cfg.CatalogSeed, 8)
	require.Equal(t, "Hotdog", cfg.CatalogSeed[0].Name)
	require.Equal(t, money.Amount(950), cfg.CatalogSeed[0].Price)

	ok, err := argon2id.ComparePasswordAndHash("123456", cfg.StaffPasscodeHash)
	require.NoError(t, err)
	require.True(t, ok)

	seed := cfg.TillSeed()
	require.Len(t, seed, 11)
	require.Equal(t, config.DefaultTillFloat, seed[money.Coin5Cent])
}

func TestLoadParsesCatalogItems(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"CATALOG_ITEMS": "1,Hotdog,9.50,5; 2,Longganisa,20.75,3",
		"TILL_FLOAT":    "2",
	})
	require.NoError(t, err)

	require.Len(t, cfg.CatalogSeed, 2)
	require.Equal(t, money.Amount(2075), cfg.CatalogSeed[1].Price)
	require.Equal(t, 3, cfg.CatalogSeed[1].Stock)
	require.Equal(t, 2, cfg.TillFloat)
}

func TestLoadRejectsMalformedCatalogItems(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"CATALOG_ITEMS": "1,Hotdog,9.50",
	})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{
		"CATALOG_ITEMS": "x,Hotdog,9.50,5",
	})
	require.Error(t, err)
}

func TestLoadValidatesSeedValues(t *testing.T) {
	// Zero price fails struct validation.
	_, err := config.LoadForTests(map[string]string{
		"CATALOG_ITEMS": "1,Hotdog,0,5",
	})
	require.Error(t, err)

	// Negative stock fails struct validation.
	_, err = config.LoadForTests(map[string]string{
		"CATALOG_ITEMS": "1,Hotdog,9.50,-2",
	})
	require.Error(t, err)
}

func TestLoadUsesProvidedPasscodeHash(t *testing.T) {
	hash, err := argon2id.CreateHash("supersecret", argon2id.DefaultParams)
	require.NoError(t, err)

	cfg, err := config.LoadForTests(map[string]string{
		"STAFF_PASSCODE_HASH": hash,
	})
	require.NoError(t, err)
	require.Equal(t, hash, cfg.StaffPasscodeHash)
}
