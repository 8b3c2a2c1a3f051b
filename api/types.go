// Package api holds the wire types of the seat reservation HTTP surface.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type SeatType string

const (
	Normal SeatType = "normal"
	VIP    SeatType = "vip"
	Couple SeatType = "couple"
	FourDX SeatType = "4dx"
)

// SlotParams identify one concrete screening; they accompany every seat
// operation because a showtime id alone does not pin down the screening the
// seat belongs to.
type SlotParams struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	RoomID    string `json:"roomId" validate:"required,max=64"`
}

type ReserveSeatsRequest struct {
	SlotParams
	SeatIDs []string `json:"seatIds" validate:"required,min=1,max=8,dive,seat_id"`
}

type ConfirmSeatsRequest struct {
	SlotParams
	SeatIDs []string `json:"seatIds" validate:"required,min=1,max=8,dive,seat_id"`
}

type ReleaseSeatsRequest struct {
	SlotParams
	SeatIDs []string `json:"seatIds" validate:"required,min=1,dive,seat_id"`
}

type ReserveSeatsResponse struct {
	Accepted      []string  `json:"accepted"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
}

type ConfirmSeatsResponse struct {
	Confirmed int `json:"confirmed"`
}

type ReleaseSeatsResponse struct {
	Released int `json:"released"`
}

type ConflictResponse struct {
	Message   string   `json:"message"`
	Conflicts []string `json:"conflicts"`
}

type Seat struct {
	ID               string          `json:"id"`
	Row              string          `json:"row"`
	Column           int             `json:"column"`
	Type             SeatType        `json:"type"`
	ExtraPrice       decimal.Decimal `json:"extraPrice"`
	Status           string          `json:"status"`
	ReservedByCaller bool            `json:"reservedByCaller"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeID int       `json:"showtimeId"`
	RoomID     string    `json:"roomId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
