package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/seatwise/seat-reservation/api"
	"github.com/seatwise/seat-reservation/internal/domain"
)

// ReserveSeats places a hold on the requested seats for the caller's
// session. The hold lasts for the configured selection duration; couple
// seats are completed to their pair before the attempt.
func (app *Application) ReserveSeats(w http.ResponseWriter, r *http.Request) {
	app.reserveSeats(w, r, app.config.Holds.Selection)
}

// BookNowSeats is the box office path: same semantics as ReserveSeats but
// with the shorter direct sale hold, since the confirm follows immediately.
func (app *Application) BookNowSeats(w http.ResponseWriter, r *http.Request) {
	app.reserveSeats(w, r, app.config.Holds.BookNow)
}

func (app *Application) reserveSeats(w http.ResponseWriter, r *http.Request, holdDuration time.Duration) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readShowtimeID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ReserveSeatsRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(input); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	slot := toSlot(showtimeID, input.SlotParams)
	holderID := app.contextGetHolderID(r)

	held, err := app.manager.Reserve(r.Context(), slot, input.SeatIDs, holderID, holdDuration)
	if err != nil {
		app.reservationErrorResponse(w, r, err)
		return
	}

	accepted := make([]string, 0, len(held))
	for _, seat := range held {
		accepted = append(accepted, seat.SeatID)
	}

	logger.Info("seats reserved",
		"showtime_id", showtimeID,
		"room_id", slot.RoomID,
		"seat_count", len(accepted),
	)

	resp := api.ReserveSeatsResponse{
		Accepted:      accepted,
		HoldExpiresAt: *held[0].HoldExpiresAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ConfirmSeats turns the caller's live holds on the given seats into
// occupied seats. Every seat must still be held by the caller.
func (app *Application) ConfirmSeats(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readShowtimeID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ConfirmSeatsRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(input); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	slot := toSlot(showtimeID, input.SlotParams)
	holderID := app.contextGetHolderID(r)

	err = app.manager.Confirm(r.Context(), slot, input.SeatIDs, holderID)
	if err != nil {
		app.reservationErrorResponse(w, r, err)
		return
	}

	logger.Info("seats confirmed",
		"showtime_id", showtimeID,
		"room_id", slot.RoomID,
		"seat_count", len(input.SeatIDs),
	)

	resp := api.ConfirmSeatsResponse{Confirmed: len(input.SeatIDs)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReleaseSeats drops the caller's holds on the given seats. Releasing a
// seat the caller does not hold is not an error; it simply does not count.
func (app *Application) ReleaseSeats(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readShowtimeID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ReleaseSeatsRequest
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(input); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	slot := toSlot(showtimeID, input.SlotParams)
	holderID := app.contextGetHolderID(r)

	released, err := app.manager.Release(r.Context(), slot, input.SeatIDs, holderID)
	if err != nil {
		app.reservationErrorResponse(w, r, err)
		return
	}

	resp := api.ReleaseSeatsResponse{Released: released}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReleaseAllForHolder drops every hold the caller's session owns across
// all screenings, the abandon-cart path.
func (app *Application) ReleaseAllForHolder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	holderID := app.contextGetHolderID(r)

	released, err := app.manager.ReleaseAllForHolder(r.Context(), holderID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingHolder) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("released all holds for session", "released", released)

	resp := api.ReleaseSeatsResponse{Released: released}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
