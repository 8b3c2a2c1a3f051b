package app

import (
	"errors"
	"net/http"

	"github.com/seatwise/seat-reservation/api"
	"github.com/seatwise/seat-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

func (app *Application) GetSeatMapByShowtime(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := app.readShowtimeID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params := api.SlotParams{
		Date:      r.URL.Query().Get("date"),
		StartTime: r.URL.Query().Get("startTime"),
		RoomID:    r.URL.Query().Get("roomId"),
	}

	if err := app.validator.Struct(params); err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	slot := toSlot(showtimeID, params)
	holderID := app.contextGetHolderID(r)

	seats, err := app.manager.SeatMap(r.Context(), slot, holderID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Warn("seat map not found", "showtime_id", showtimeID, "room_id", slot.RoomID)
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatMapResponse{
		ShowtimeID: showtimeID,
		RoomID:     slot.RoomID,
		Date:       slot.Date,
		StartTime:  slot.StartTime,
		SeatRows:   toSeatRows(seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatRows(seats []domain.SeatView) []api.SeatRow {
	// Seats come back pre-sorted by Row,Col, so one pass groups them.
	if len(seats) == 0 {
		return nil
	}

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			ID:               v.SeatID,
			Row:              v.Row,
			Column:           v.Col,
			Type:             api.SeatType(v.Type),
			ExtraPrice:       decimal.NewFromFloat(v.ExtraPrice),
			Status:           string(v.Status),
			ReservedByCaller: v.ReservedByCaller,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
