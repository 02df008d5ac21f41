package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vendo-labs/vendo/internal/catalog"
	"github.com/vendo-labs/vendo/internal/events"
	"github.com/vendo-labs/vendo/internal/money"
	"github.com/vendo-labs/vendo/internal/obs"
	"github.com/vendo-labs/vendo/internal/order"
	"github.com/vendo-labs/vendo/internal/till"
)

// ErrOutOfStock indicates the selected item has zero stock. Nothing is mutated.
var ErrOutOfStock = errors.New("checkout: item out of stock")

// ErrInsufficientFunds is the recoverable signal that the running total would
// exceed the inserted funds. Match with errors.Is; the shortfall travels in
// InsufficientFundsError.
var ErrInsufficientFunds = errors.New("checkout: insufficient funds")

// ErrInvariant marks a condition the component contracts rule out. It
// indicates a logic bug, not a user-facing failure.
var ErrInvariant = errors.New("checkout: invariant violation")

// InsufficientFundsError reports how much more money the customer must insert
// before the rejected selection can succeed.
type InsufficientFundsError struct {
	Shortfall money.Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("checkout: insufficient funds, short by %s", money.Format(e.Shortfall))
}

// Is lets errors.Is(err, ErrInsufficientFunds) match.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Outcome is the settlement verdict.
type Outcome string

const (
	OutcomeCommitted       Outcome = "COMMITTED"
	OutcomeCancelled       Outcome = "CANCELLED"
	OutcomeChangeShortfall Outcome = "CHANGE_SHORTFALL"
)

// Result describes how a settlement ended.
type Result struct {
	Outcome   Outcome
	Total     money.Amount
	Lines     []order.Line
	Change    money.Amount
	Breakdown till.Breakdown
	Refund    money.Amount
	Remainder money.Amount
}

// Service drives one customer purchase interaction over the shared catalog
// and till. Exactly one session and one inserted-funds total are live at a
// time; the core is single-threaded by contract, so the service takes no
// locks.
type Service struct {
	Catalog *catalog.Catalog
	Till    *till.Till
	Session *order.Session
	Bus     *events.Bus
	Log     zerolog.Logger

	inserted money.Amount
}

// InsertedFunds returns the customer's running deposit total for this session.
func (s *Service) InsertedFunds() money.Amount {
	return s.inserted
}

// Deposit feeds one cash unit into the till and credits it to the customer's
// claim. Invalid denominations leave both untouched.
func (s *Service) Deposit(ctx context.Context, d money.Denomination) error {
	if err := s.configured(); err != nil {
		return err
	}
	if err := s.Till.Deposit(d); err != nil {
		return err
	}
	s.inserted += money.Amount(d)
	if obs.DepositsTotal != nil {
		obs.DepositsTotal.WithLabelValues(strconv.FormatInt(int64(d), 10)).Inc()
	}
	s.Log.Debug().
		Str("session_id", s.Session.ID().String()).
		Str("denomination", money.Format(money.Amount(d))).
		Str("inserted", money.Format(s.inserted)).
		Msg("cash deposited")
	return nil
}

// SelectItem adds one unit of the item to the session. Checks run in order:
// existence, stock, affordability. The affordability rejection is
// recoverable; the caller may deposit more and retry the same selection, and
// the rest of the session is unaffected either way.
func (s *Service) SelectItem(ctx context.Context, itemID int) error {
	if err := s.configured(); err != nil {
		return err
	}
	if s.Session.State() == order.StateAwaitingSettlement {
		return order.ErrNotAccumulating
	}
	it, err := s.Catalog.FindByID(itemID)
	if err != nil {
		s.rejectSelection("not_found")
		return err
	}
	if it.Stock == 0 {
		s.rejectSelection("out_of_stock")
		return fmt.Errorf("%w: %s", ErrOutOfStock, it.Name)
	}
	projected := s.Session.Total() + it.Price
	if projected > s.inserted {
		s.rejectSelection("insufficient_funds")
		return &InsufficientFundsError{Shortfall: projected - s.inserted}
	}

	if err := s.Catalog.AdjustStock(itemID, -1); err != nil {
		return fmt.Errorf("%w: decrement stock for item %d: %v", ErrInvariant, itemID, err)
	}
	if err := s.Session.Add(it); err != nil {
		// The stock decrement must not outlive a failed add.
		if restoreErr := s.Catalog.AdjustStock(itemID, 1); restoreErr != nil {
			return fmt.Errorf("%w: restore stock for item %d: %v", ErrInvariant, itemID, restoreErr)
		}
		return err
	}
	s.Log.Info().
		Str("session_id", s.Session.ID().String()).
		Int("item_id", it.ID).
		Str("item", it.Name).
		Str("price", money.Format(it.Price)).
		Str("total", money.Format(s.Session.Total())).
		Msg("item selected")
	return nil
}

// Finalize signals the customer is done selecting. At least one line is
// required to move to settlement.
func (s *Service) Finalize(ctx context.Context) error {
	if err := s.configured(); err != nil {
		return err
	}
	return s.Session.Finalize()
}

// Settle closes the purchase interaction.
//
// Cancelled: every stock decrement made during selection is reversed, the
// inserted funds are refunded in full, and the session resets. Cancellation
// is accepted from any non-terminal state so an abandoned session can be
// unwound without leaking stock.
//
// Committed: change = inserted - total is dispensed from the till. Till
// liquidity is validated before anything is dispensed; when exact change
// cannot be composed, the order is compensated the same way a cancellation
// is (stock restored, funds refunded) and the result reports ChangeShortfall.
// Stock and cash are never left out of step. Negative
// change cannot occur if SelectItem's affordability check held; it is
// reported as an invariant violation and nothing is mutated.
func (s *Service) Settle(ctx context.Context, confirmed bool) (Result, error) {
	if err := s.configured(); err != nil {
		return Result{}, err
	}

	lines := s.Session.Lines()
	total := s.Session.Total()
	sessionID := s.Session.ID()

	if !confirmed {
		if err := s.restoreStock(lines); err != nil {
			return Result{}, err
		}
		refund := s.reset()
		if obs.OrdersCancelledTotal != nil {
			obs.OrdersCancelledTotal.Inc()
		}
		s.emit(ctx, events.TopicOrderCancelled, sessionID, map[string]any{
			"total":  total,
			"refund": refund,
		})
		s.Log.Info().
			Str("session_id", sessionID.String()).
			Str("refund", money.Format(refund)).
			Msg("order cancelled")
		return Result{Outcome: OutcomeCancelled, Total: total, Lines: lines, Refund: refund}, nil
	}

	if s.Session.State() != order.StateAwaitingSettlement {
		return Result{}, order.ErrNotFinalized
	}

	change := s.inserted - total
	if change < 0 {
		err := fmt.Errorf("%w: inserted %s below total %s", ErrInvariant,
			money.Format(s.inserted), money.Format(total))
		s.Log.Error().Str("session_id", sessionID.String()).Err(err).Msg("negative change at settlement")
		return Result{}, err
	}

	var breakdown till.Breakdown
	if change > 0 {
		if !s.Till.CanDispense(change) {
			return s.settleShortfall(ctx, sessionID, lines, total, change)
		}
		var err error
		breakdown, err = s.Till.Dispense(change)
		if err != nil {
			return Result{}, err
		}
	}

	s.reset()
	if obs.OrdersCommittedTotal != nil {
		obs.OrdersCommittedTotal.Inc()
	}
	if obs.ChangeDispensedCentavos != nil {
		obs.ChangeDispensedCentavos.Add(float64(change))
	}
	s.emit(ctx, events.TopicOrderCommitted, sessionID, map[string]any{
		"total":  total,
		"change": change,
	})
	s.Log.Info().
		Str("session_id", sessionID.String()).
		Str("total", money.Format(total)).
		Str("change", money.Format(change)).
		Msg("order committed")
	return Result{Outcome: OutcomeCommitted, Total: total, Lines: lines, Change: change, Breakdown: breakdown}, nil
}

// settleShortfall compensates a confirmed order the till cannot make change
// for. The till was left untouched by the liquidity check; the stock goes
// back and the customer is refunded everything they inserted.
func (s *Service) settleShortfall(ctx context.Context, sessionID uuid.UUID, lines []order.Line, total, change money.Amount) (Result, error) {
	if err := s.restoreStock(lines); err != nil {
		return Result{}, err
	}
	refund := s.reset()
	if obs.ChangeShortfallTotal != nil {
		obs.ChangeShortfallTotal.Inc()
	}
	s.emit(ctx, events.TopicTillShortfall, sessionID, map[string]any{
		"total":     total,
		"remainder": change,
		"refund":    refund,
	})
	s.Log.Warn().
		Str("session_id", sessionID.String()).
		Str("total", money.Format(total)).
		Str("remainder", money.Format(change)).
		Msg("exact change unavailable, order rolled back")
	return Result{
		Outcome:   OutcomeChangeShortfall,
		Total:     total,
		Lines:     lines,
		Refund:    refund,
		Remainder: change,
	}, nil
}

func (s *Service) rejectSelection(reason string) {
	if obs.SelectionRejectedTotal != nil {
		obs.SelectionRejectedTotal.WithLabelValues(reason).Inc()
	}
}

// reset zeroes the inserted funds and the session, returning the funds that
// were held.
func (s *Service) reset() money.Amount {
	held := s.inserted
	s.inserted = 0
	s.Session.Reset()
	return held
}

func (s *Service) restoreStock(lines []order.Line) error {
	var joined error
	for _, line := range lines {
		if err := s.Catalog.AdjustStock(line.ItemID, line.Quantity); err != nil {
			joined = errors.Join(joined, fmt.Errorf("%w: restore %d units of item %d: %v",
				ErrInvariant, line.Quantity, line.ItemID, err))
		}
	}
	return joined
}

func (s *Service) emit(ctx context.Context, topic string, sessionID uuid.UUID, payload any) {
	if s.Bus == nil {
		return
	}
	if _, err := s.Bus.Emit(ctx, topic, sessionID, payload); err != nil {
		s.Log.Warn().Err(err).Str("topic", topic).Msg("event emit failed")
	}
}

func (s *Service) configured() error {
	if s == nil || s.Catalog == nil || s.Till == nil || s.Session == nil {
		return errors.New("checkout: service not configured")
	}
	return nil
}
