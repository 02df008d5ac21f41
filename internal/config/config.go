package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/vendo-labs/vendo/internal/money"
)

// SeedItem is one catalog entry from configuration.
type SeedItem struct {
	ID    int          `validate:"gt=0"`
	Name  string       `validate:"required,max=40"`
	Price money.Amount `validate:"gt=0"`
	Stock int          `validate:"gte=0"`
}

// Config holds terminal configuration loaded from the environment.
type Config struct {
	AppEnv           string `validate:"required"`
	LogLevel         string
	LogFormat        string
	MetricsNamespace string `validate:"required"`
	// StaffPasscodeHash is the argon2id hash gating maintenance access.
	StaffPasscodeHash string `validate:"required"`
	ExportPath        string `validate:"required"`
	// TillFloat is the number of units each denomination starts with.
	TillFloat   int        `validate:"gte=0"`
	CatalogSeed []SeedItem `validate:"min=1,dive"`
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	seed, err := parseCatalogSeed(k.String("CATALOG_ITEMS"))
	if err != nil {
		return nil, err
	}
	if len(seed) == 0 {
		seed = DefaultCatalogSeed()
	}

	passcodeHash := strings.TrimSpace(k.String("STAFF_PASSCODE_HASH"))
	if passcodeHash == "" {
		passcode := valueOrDefault(k.String("STAFF_PASSCODE"), defaultStaffPasscode)
		passcodeHash, err = argon2id.CreateHash(passcode, argon2id.DefaultParams)
		if err != nil {
			return nil, fmt.Errorf("hash staff passcode: %w", err)
		}
	}

	cfg := &Config{
		AppEnv:            valueOrDefault(k.String("APP_ENV"), "development"),
		LogLevel:          valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:         valueOrDefault(k.String("LOG_FORMAT"), "console"),
		MetricsNamespace:  valueOrDefault(k.String("METRICS_NAMESPACE"), "vendo"),
		StaffPasscodeHash: passcodeHash,
		ExportPath:        valueOrDefault(k.String("EXPORT_PATH"), "build/vending_items.csv"),
		TillFloat:         parseInt(k.String("TILL_FLOAT"), DefaultTillFloat),
		CatalogSeed:       seed,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// TillSeed returns the initial per-denomination float for the till.
func (c *Config) TillSeed() map[money.Denomination]int {
	counts := make(map[money.Denomination]int, len(money.Accepted()))
	for _, d := range money.Accepted() {
		counts[d] = c.TillFloat
	}
	return counts
}

// parseCatalogSeed parses CATALOG_ITEMS entries of the form
// "id,name,price,stock" separated by semicolons, with prices in major units,
// e.g. "1,Hotdog,9.50,5;2,Longganisa,20.75,3".
func parseCatalogSeed(raw string) ([]SeedItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	entries := strings.Split(raw, ";")
	items := make([]SeedItem, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Split(entry, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("catalog item %q: want id,name,price,stock", entry)
		}
		id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: parse id: %w", entry, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: parse price: %w", entry, err)
		}
		stock, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, fmt.Errorf("catalog item %q: parse stock: %w", entry, err)
		}
		items = append(items, SeedItem{
			ID:    id,
			Name:  strings.TrimSpace(fields[1]),
			Price: money.ToMinorUnits(price),
			Stock: stock,
		})
	}
	return items, nil
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseInt(value string, fallback int) int {
	base := strings.TrimSpace(value)
	if base == "" {
		return fallback
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return fallback
	}
	return n
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
