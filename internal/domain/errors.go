package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateSlot  = errors.New("seat instances already generated for slot")
	ErrMissingHolder  = errors.New("holder id is required")
)

// Selection rule identifiers carried by ValidationError.
const (
	RuleCapacity    = "capacity"
	RuleMixedTypes  = "mixed-seat-types"
	RuleCouplePair  = "couple-pair"
	RuleIsolatedGap = "isolated-gap"
)

// ConflictError reports the seats that blocked a reserve batch: occupied,
// under maintenance, or held by another party. Recoverable; the caller
// re-renders the seat map and lets the user pick again.
type ConflictError struct {
	SeatIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.SeatIDs, ", "))
}

// UnknownSeatError marks a client/catalog desync: the request named seats the
// catalog does not know for this slot. The whole batch fails.
type UnknownSeatError struct {
	SeatIDs []string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("unknown seats: %s", strings.Join(e.SeatIDs, ", "))
}

// NotReservedError means a confirm or release targeted seats the caller does
// not currently hold.
type NotReservedError struct {
	SeatIDs []string
}

func (e *NotReservedError) Error() string {
	return fmt.Sprintf("seats not reserved by caller: %s", strings.Join(e.SeatIDs, ", "))
}

// OwnershipError means the targeted seats are held by a different party. This
// is an integrity fault in the caller, never silently ignored.
type OwnershipError struct {
	SeatIDs []string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("seats held by another party: %s", strings.Join(e.SeatIDs, ", "))
}

// ValidationError is a selection-rule rejection. It is produced before any
// store access and names the specific rule violated.
type ValidationError struct {
	Rule    string
	Message string
	SeatIDs []string
}

func (e *ValidationError) Error() string {
	if len(e.SeatIDs) == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.SeatIDs, ", "))
}
