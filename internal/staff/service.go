package staff

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vendo-labs/vendo/internal/catalog"
	"github.com/vendo-labs/vendo/internal/events"
	"github.com/vendo-labs/vendo/internal/money"
	"github.com/vendo-labs/vendo/internal/till"
)

// ErrAccessDenied is returned when the presented passcode does not match.
var ErrAccessDenied = errors.New("staff: access denied")

// ErrLocked indicates a maintenance operation was attempted before Unlock.
var ErrLocked = errors.New("staff: maintenance is locked")

// ErrInvalidQuantity is returned for non-positive restock quantities.
var ErrInvalidQuantity = errors.New("staff: invalid quantity")

// Service exposes the maintenance operations that bypass the customer
// session: inventory and register edits, cash-out, and the catalog export.
// Every operation requires a prior successful Unlock.
type Service struct {
	Catalog      *catalog.Catalog
	Till         *till.Till
	PasscodeHash string
	Bus          *events.Bus
	Log          zerolog.Logger

	unlocked bool
}

// Unlock verifies the staff passcode against the configured argon2id hash.
func (s *Service) Unlock(passcode string) error {
	if err := s.configured(); err != nil {
		return err
	}
	ok, err := argon2id.ComparePasswordAndHash(passcode, s.PasscodeHash)
	if err != nil {
		return fmt.Errorf("staff: verify passcode: %w", err)
	}
	if !ok {
		s.Log.Warn().Msg("maintenance unlock rejected")
		return ErrAccessDenied
	}
	s.unlocked = true
	s.Log.Info().Msg("maintenance unlocked")
	return nil
}

// Lock relocks maintenance, e.g. when the staff screen is left.
func (s *Service) Lock() {
	if s != nil {
		s.unlocked = false
	}
}

// Inventory returns the current catalog snapshot.
func (s *Service) Inventory() ([]catalog.Item, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.Catalog.ListAll(), nil
}

// SetPrice replaces an item's unit price.
func (s *Service) SetPrice(ctx context.Context, itemID int, price money.Amount) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Catalog.SetPrice(itemID, price); err != nil {
		return err
	}
	s.emit(ctx, events.TopicCatalogPriceChange, map[string]any{"item_id": itemID, "price": price})
	s.Log.Info().Int("item_id", itemID).Str("price", money.Format(price)).Msg("item price updated")
	return nil
}

// RestockItem adds quantity units of stock to an item.
func (s *Service) RestockItem(ctx context.Context, itemID, quantity int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if err := s.Catalog.AdjustStock(itemID, quantity); err != nil {
		return err
	}
	s.emit(ctx, events.TopicCatalogRestocked, map[string]any{"item_id": itemID, "quantity": quantity})
	s.Log.Info().Int("item_id", itemID).Int("quantity", quantity).Msg("item restocked")
	return nil
}

// AdjustStock applies an arbitrary stock delta, e.g. removing spoiled items.
func (s *Service) AdjustStock(ctx context.Context, itemID, delta int) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.Catalog.AdjustStock(itemID, delta)
}

// RegisterSnapshot returns every till slot, highest denomination first.
func (s *Service) RegisterSnapshot() ([]till.Slot, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.Till.Snapshot(), nil
}

// RegisterTotal returns the total cash on hand.
func (s *Service) RegisterTotal() (money.Amount, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return s.Till.TotalValue(), nil
}

// RestockRegister adds quantity units of a denomination to the till float.
func (s *Service) RestockRegister(ctx context.Context, d money.Denomination, quantity int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Till.Restock(d, quantity); err != nil {
		return err
	}
	s.emit(ctx, events.TopicTillRestocked, map[string]any{"denomination": int64(d), "quantity": quantity})
	s.Log.Info().
		Str("denomination", money.Format(money.Amount(d))).
		Int("quantity", quantity).
		Msg("register restocked")
	return nil
}

// CashOutAmount withdraws an arbitrary amount via the greedy breakdown. The
// withdrawal is atomic; when the amount cannot be composed the register is
// unchanged.
func (s *Service) CashOutAmount(ctx context.Context, amount money.Amount) (till.Breakdown, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	breakdown, err := s.Till.WithdrawByAmount(amount)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.TopicTillCashOut, map[string]any{"amount": amount})
	s.Log.Info().Str("amount", money.Format(amount)).Msg("cash out by amount")
	return breakdown, nil
}

// CashOutDenomination withdraws quantity units of one denomination.
func (s *Service) CashOutDenomination(ctx context.Context, d money.Denomination, quantity int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Till.WithdrawByDenomination(d, quantity); err != nil {
		return err
	}
	s.emit(ctx, events.TopicTillCashOut, map[string]any{"denomination": int64(d), "quantity": quantity})
	s.Log.Info().
		Str("denomination", money.Format(money.Amount(d))).
		Int("quantity", quantity).
		Msg("cash out by denomination")
	return nil
}

// ExportInventory writes the one-shot catalog CSV export.
func (s *Service) ExportInventory(ctx context.Context, w io.Writer) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Catalog.ExportCSV(w); err != nil {
		return fmt.Errorf("staff: export inventory: %w", err)
	}
	s.Log.Info().Msg("inventory exported")
	return nil
}

func (s *Service) emit(ctx context.Context, topic string, payload any) {
	if s.Bus == nil {
		return
	}
	if _, err := s.Bus.Emit(ctx, topic, uuid.Nil, payload); err != nil {
		s.Log.Warn().Err(err).Str("topic", topic).Msg("event emit failed")
	}
}

func (s *Service) guard() error {
	if err := s.configured(); err != nil {
		return err
	}
	if !s.unlocked {
		return ErrLocked
	}
	return nil
}

func (s *Service) configured() error {
	if s == nil || s.Catalog == nil || s.Till == nil {
		return errors.New("staff: service not configured")
	}
	return nil
}
