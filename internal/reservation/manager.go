package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/seatwise/seat-reservation/internal/domain"
)

// Manager exposes the atomic seat state transitions: reserve, confirm,
// release, expire. It owns no locks itself; atomicity lives in the store's
// per-seat compare-and-set contract, which makes every operation safe under
// arbitrary interleaving of request handlers and the reaper.
type Manager struct {
	store     domain.ReservationStore
	catalog   domain.SeatCatalog
	validator *SelectionValidator
	logger    *slog.Logger

	now func() time.Time
}

func NewManager(store domain.ReservationStore, catalog domain.SeatCatalog, logger *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		catalog:   catalog,
		validator: NewSelectionValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// Reserve places a time-boxed hold on the given seats for holderID. The
// selection is couple-expanded and validated first, then handed to the store
// as an all-or-nothing batch: on any conflict no seat is left held and the
// returned ConflictError names the blocking seats. A stale hold on a target
// seat counts as available (lazy expiry happens inside the attempt itself).
func (m *Manager) Reserve(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string,
	holdDuration time.Duration) ([]domain.SeatInstance, error) {

	if holderID == "" {
		return nil, domain.ErrMissingHolder
	}

	layout, err := m.catalog.Layout(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("loading layout for slot %s: %w", slot.Key(), err)
	}

	types := layout.SeatTypes()

	if err := m.checkKnownSeats(types, seatIDs); err != nil {
		return nil, err
	}

	expanded, err := m.validator.ExpandCouplePairs(types, seatIDs)
	if err != nil {
		return nil, err
	}

	instances, err := m.store.GetSeats(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("loading seat instances for slot %s: %w", slot.Key(), err)
	}

	now := m.now()
	byID := seatsByID(instances)

	if err := m.validator.Validate(layout, byID, expanded, now); err != nil {
		return nil, err
	}

	expiresAt := now.Add(holdDuration)

	if err := m.store.Reserve(ctx, slot, expanded, holderID, expiresAt); err != nil {
		return nil, err
	}

	reserved := make([]domain.SeatInstance, 0, len(expanded))
	for _, seatID := range expanded {
		reserved = append(reserved, domain.SeatInstance{
			Slot:          slot,
			SeatID:        seatID,
			Type:          types[seatID],
			Status:        domain.SeatStatusReserved,
			HolderID:      holderID,
			HoldExpiresAt: &expiresAt,
		})
	}

	return reserved, nil
}

// Confirm finalizes a paid-for hold: reserved becomes occupied and the expiry
// is cleared. Every seat must currently be held by holderID; the store
// rejects the whole batch otherwise. Irreversible from this subsystem's
// perspective.
func (m *Manager) Confirm(ctx context.Context, slot domain.Slot, seatIDs []string, holderID string) error {
	if holderID == "" {
		return domain.ErrMissingHolder
	}

	if len(seatIDs) == 0 {
		return &domain.ValidationError{
			Rule:    domain.RuleCapacity,
			Message: "at least one seat must be confirmed",
		}
	}

	return m.store.Confirm(ctx, slot, dedupe(seatIDs), holderID)
}

// Release returns the caller's holds on the given seats to available.
// Idempotent: seats that are not currently reserved by holderID simply do not
// count. An empty holderID is the administrative path and releases any hold
// on the listed seats.
func (m *Manager) Release(ctx context.Context, slot domain.Slot, seatIDs []string, holderID string) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	return m.store.Release(ctx, slot, dedupe(seatIDs), holderID)
}

// ReleaseAllForHolder drops every hold the holder has, across all slots. This
// is the cooperative fast path invoked when a user switches showings before
// completing checkout, so holds never pile up across showtimes.
func (m *Manager) ReleaseAllForHolder(ctx context.Context, holderID string) (int, error) {
	if holderID == "" {
		return 0, domain.ErrMissingHolder
	}

	return m.store.ReleaseAllForHolder(ctx, holderID)
}

// RunExpirySweep releases every hold past its expiry and returns the count
// released. Idempotent and safe to run concurrently with reserve/confirm;
// correctness never depends on it because expiry is also enforced lazily on
// access.
func (m *Manager) RunExpirySweep(ctx context.Context) (int, error) {
	return m.store.ReleaseExpired(ctx, m.now())
}

// SeatMap returns the full seat map of a slot for the checkout UI: layout
// joined with hold state, expired holds already folded back to available, and
// a derived flag marking the caller's own holds.
func (m *Manager) SeatMap(ctx context.Context, slot domain.Slot, callerID string) ([]domain.SeatView, error) {
	layout, err := m.catalog.Layout(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("loading layout for slot %s: %w", slot.Key(), err)
	}

	instances, err := m.store.GetSeats(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("loading seat instances for slot %s: %w", slot.Key(), err)
	}

	now := m.now()
	byID := seatsByID(instances)

	views := make([]domain.SeatView, 0, len(layout.Seats))

	for _, seat := range layout.Seats {
		view := domain.SeatView{
			SeatID:     seat.SeatID,
			Row:        seat.Row,
			Col:        seat.Col,
			Type:       seat.Type,
			ExtraPrice: seat.ExtraPrice,
			Status:     domain.SeatStatusAvailable,
		}

		// A layout seat with no instance record renders as available
		// rather than failing the whole map; the admin workflow may
		// have regenerated the room underneath us.
		if inst, ok := byID[seat.SeatID]; ok {
			view.Status = inst.EffectiveStatus(now)
			view.ReservedByCaller = callerID != "" && inst.HeldBy(callerID, now)
		}

		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Row != views[j].Row {
			return views[i].Row < views[j].Row
		}
		return views[i].Col < views[j].Col
	})

	return views, nil
}

func (m *Manager) checkKnownSeats(types map[string]domain.SeatType, seatIDs []string) error {
	var unknown []string

	for _, seatID := range dedupe(seatIDs) {
		if _, ok := types[seatID]; !ok {
			unknown = append(unknown, seatID)
		}
	}

	if len(unknown) > 0 {
		return &domain.UnknownSeatError{SeatIDs: unknown}
	}

	return nil
}

func seatsByID(instances []domain.SeatInstance) map[string]domain.SeatInstance {
	byID := make(map[string]domain.SeatInstance, len(instances))

	for _, inst := range instances {
		byID[inst.SeatID] = inst
	}

	return byID
}

func dedupe(seatIDs []string) []string {
	seen := make(map[string]bool, len(seatIDs))
	out := make([]string, 0, len(seatIDs))

	for _, seatID := range seatIDs {
		if seen[seatID] {
			continue
		}

		seen[seatID] = true
		out = append(out, seatID)
	}

	return out
}
