package order

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendo-labs/vendo/internal/catalog"
	"github.com/vendo-labs/vendo/internal/money"
)

// ErrMustSelectAtLeastOne is returned when finalizing a session with no lines.
var ErrMustSelectAtLeastOne = errors.New("order: must select at least one item")

// ErrNotAccumulating indicates a selection was attempted after the session
// was finalized.
var ErrNotAccumulating = errors.New("order: session is not accumulating")

// ErrNotFinalized indicates settlement was requested before Finalize.
var ErrNotFinalized = errors.New("order: session is not awaiting settlement")

// State is the session lifecycle position.
type State string

const (
	StateEmpty              State = "EMPTY"
	StateAccumulating       State = "ACCUMULATING"
	StateAwaitingSettlement State = "AWAITING_SETTLEMENT"
)

// Line is one distinct item in the session: the item identity, the quantity
// picked, and the subtotal at selection-time prices.
type Line struct {
	ItemID    int
	Name      string
	Quantity  int
	UnitPrice money.Amount
	Subtotal  money.Amount
}

// Session accumulates the single active customer order. Lines are
// deduplicated by item id; repeat picks increment the existing line.
// Insertion order is selection order.
type Session struct {
	id    uuid.UUID
	state State
	lines []*Line
	index map[int]*Line
	total money.Amount
}

// NewSession returns an empty session with a fresh correlation id.
func NewSession() *Session {
	return &Session{
		id:    uuid.New(),
		state: StateEmpty,
		index: make(map[int]*Line),
	}
}

// ID returns the correlation id of the current purchase interaction.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Total returns the running order total in minor units.
func (s *Session) Total() money.Amount { return s.total }

// Lines returns a copy of the order lines in selection order.
func (s *Session) Lines() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, *l)
	}
	return out
}

// Add records one unit of the item against the session. The caller has
// already verified stock and affordability.
func (s *Session) Add(it catalog.Item) error {
	if s.state == StateAwaitingSettlement {
		return fmt.Errorf("%w: state %s", ErrNotAccumulating, s.state)
	}
	if line, ok := s.index[it.ID]; ok {
		line.Quantity++
		line.Subtotal += it.Price
	} else {
		line := &Line{ItemID: it.ID, Name: it.Name, Quantity: 1, UnitPrice: it.Price, Subtotal: it.Price}
		s.lines = append(s.lines, line)
		s.index[it.ID] = line
	}
	s.total += it.Price
	s.state = StateAccumulating
	return nil
}

// Finalize moves the session to AwaitingSettlement. At least one line is
// required.
func (s *Session) Finalize() error {
	if len(s.lines) == 0 {
		return ErrMustSelectAtLeastOne
	}
	s.state = StateAwaitingSettlement
	return nil
}

// Reset clears all lines and the running total and returns the session to
// Empty under a new correlation id. Called on commit and on cancel.
func (s *Session) Reset() {
	s.id = uuid.New()
	s.state = StateEmpty
	s.lines = nil
	s.index = make(map[int]*Line)
	s.total = 0
}
