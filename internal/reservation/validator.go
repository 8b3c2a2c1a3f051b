package reservation

import (
	"fmt"
	"time"

	"github.com/seatwise/seat-reservation/internal/domain"
)

// MaxSeatsPerReservation is the hard business cap on a single selection.
const MaxSeatsPerReservation = 8

// SelectionValidator is the pure rule engine applied to a proposed seat
// selection before any reservation is attempted. It holds no state and never
// touches the store; it inspects only the layout and the seat statuses it is
// handed.
type SelectionValidator struct {
	MaxSeats int
}

func NewSelectionValidator() *SelectionValidator {
	return &SelectionValidator{MaxSeats: MaxSeatsPerReservation}
}

// ExpandCouplePairs normalizes a selection so that couple seats always travel
// in their fixed pairs: selecting one half pulls in the other. Non-couple
// seats pass through untouched. Duplicates are dropped, order is preserved,
// partners are inserted right after their mate.
func (v *SelectionValidator) ExpandCouplePairs(types map[string]domain.SeatType, seatIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(seatIDs))
	expanded := make([]string, 0, len(seatIDs))

	for _, seatID := range seatIDs {
		if seen[seatID] {
			continue
		}

		seen[seatID] = true
		expanded = append(expanded, seatID)

		if types[seatID] != domain.SeatTypeCouple {
			continue
		}

		partner, err := domain.CouplePartner(seatID)
		if err != nil {
			return nil, &domain.ValidationError{
				Rule:    domain.RuleCouplePair,
				Message: err.Error(),
				SeatIDs: []string{seatID},
			}
		}

		if _, ok := types[partner]; !ok {
			return nil, &domain.ValidationError{
				Rule:    domain.RuleCouplePair,
				Message: fmt.Sprintf("couple seat %s has no partner %s in this room", seatID, partner),
				SeatIDs: []string{seatID, partner},
			}
		}

		if !seen[partner] {
			seen[partner] = true
			expanded = append(expanded, partner)
		}
	}

	return expanded, nil
}

// Validate applies the selection rules in order: capacity, single seat type,
// couple pairing, no-isolated-gap. The proposed set is expected to already be
// couple-expanded. Returns a *domain.ValidationError naming the violated rule,
// or nil.
func (v *SelectionValidator) Validate(
	layout *domain.RoomLayout,
	seats map[string]domain.SeatInstance,
	proposed []string,
	now time.Time) error {

	if len(proposed) == 0 {
		return &domain.ValidationError{
			Rule:    domain.RuleCapacity,
			Message: "at least one seat must be selected",
		}
	}

	if len(proposed) > v.MaxSeats {
		return &domain.ValidationError{
			Rule:    domain.RuleCapacity,
			Message: fmt.Sprintf("at most %d seats can be selected at once", v.MaxSeats),
		}
	}

	types := layout.SeatTypes()

	if err := v.checkSingleType(types, proposed); err != nil {
		return err
	}

	if err := v.checkCouplePairs(types, seats, proposed, now); err != nil {
		return err
	}

	return v.checkIsolatedGaps(layout, seats, proposed, now)
}

// checkSingleType rejects selections mixing seat types. Couple partners are
// couple seats themselves, so auto-included partners never break the rule.
func (v *SelectionValidator) checkSingleType(types map[string]domain.SeatType, proposed []string) error {
	var first domain.SeatType

	for i, seatID := range proposed {
		t := types[seatID]

		if i == 0 {
			first = t
			continue
		}

		if t != first {
			return &domain.ValidationError{
				Rule:    domain.RuleMixedTypes,
				Message: fmt.Sprintf("cannot mix %s and %s seats in one selection", first, t),
				SeatIDs: []string{proposed[0], seatID},
			}
		}
	}

	return nil
}

// checkCouplePairs verifies that every couple seat travels with its partner
// and that the partner is actually sellable: an unavailable partner makes the
// whole pair unselectable.
func (v *SelectionValidator) checkCouplePairs(
	types map[string]domain.SeatType,
	seats map[string]domain.SeatInstance,
	proposed []string,
	now time.Time) error {

	selected := make(map[string]bool, len(proposed))
	for _, seatID := range proposed {
		selected[seatID] = true
	}

	for _, seatID := range proposed {
		if types[seatID] != domain.SeatTypeCouple {
			continue
		}

		partner, err := domain.CouplePartner(seatID)
		if err != nil {
			return &domain.ValidationError{
				Rule:    domain.RuleCouplePair,
				Message: err.Error(),
				SeatIDs: []string{seatID},
			}
		}

		if !selected[partner] {
			return &domain.ValidationError{
				Rule:    domain.RuleCouplePair,
				Message: fmt.Sprintf("couple seat %s must be selected together with %s", seatID, partner),
				SeatIDs: []string{seatID, partner},
			}
		}

		if inst, ok := seats[partner]; ok && inst.EffectiveStatus(now) != domain.SeatStatusAvailable {
			return &domain.ValidationError{
				Rule:    domain.RuleCouplePair,
				Message: fmt.Sprintf("couple seat %s is unselectable because its partner %s is unavailable", seatID, partner),
				SeatIDs: []string{seatID, partner},
			}
		}
	}

	return nil
}

// checkIsolatedGaps rejects selections that would strand a single sellable
// seat between the selection and an occupied seat or the row edge. Couple
// seats are exempt; the row edge counts as occupied.
func (v *SelectionValidator) checkIsolatedGaps(
	layout *domain.RoomLayout,
	seats map[string]domain.SeatInstance,
	proposed []string,
	now time.Time) error {

	types := layout.SeatTypes()

	byPos := make(map[string]map[int]string, layout.Rows)
	for _, seat := range layout.Seats {
		if byPos[seat.Row] == nil {
			byPos[seat.Row] = make(map[int]string, layout.Cols)
		}
		byPos[seat.Row][seat.Col] = seat.SeatID
	}

	selected := make(map[string]bool, len(proposed))
	for _, seatID := range proposed {
		selected[seatID] = true
	}

	open := func(seatID string) bool {
		inst, ok := seats[seatID]
		if !ok {
			return true
		}
		return inst.EffectiveStatus(now) == domain.SeatStatusAvailable
	}

	for _, seatID := range proposed {
		if types[seatID] == domain.SeatTypeCouple {
			continue
		}

		row, col, err := domain.ParseSeatID(seatID)
		if err != nil {
			return &domain.ValidationError{
				Rule:    domain.RuleIsolatedGap,
				Message: err.Error(),
				SeatIDs: []string{seatID},
			}
		}

		for _, d := range []int{-1, 1} {
			neighbor, ok := byPos[row][col+d]
			if !ok || selected[neighbor] || !open(neighbor) {
				continue
			}

			far, farExists := byPos[row][col+2*d]
			blocked := !farExists || selected[far] || !open(far)

			if blocked {
				return &domain.ValidationError{
					Rule:    domain.RuleIsolatedGap,
					Message: fmt.Sprintf("selection would leave seat %s stranded as a single gap", neighbor),
					SeatIDs: []string{neighbor},
				}
			}
		}
	}

	return nil
}
