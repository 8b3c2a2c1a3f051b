package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seatwise/seat-reservation/internal/domain"
)

// PostgresSeatCatalog reads room layouts from the room_seats table. The
// catalog is owned by the external admin workflow; this subsystem only reads it.
type PostgresSeatCatalog struct {
	db *pgxpool.Pool
}

func NewPostgresSeatCatalog(db *pgxpool.Pool) *PostgresSeatCatalog {
	return &PostgresSeatCatalog{
		db: db,
	}
}

func (p *PostgresSeatCatalog) Layout(ctx context.Context, slot domain.Slot) (*domain.RoomLayout, error) {
	query := `
		SELECT seat_id, seat_row, seat_col, seat_type, extra_price
		FROM room_seats
		WHERE room_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := p.db.Query(ctx, query, slot.RoomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	layout := domain.RoomLayout{RoomID: slot.RoomID}
	seenRows := make(map[string]bool)

	for rows.Next() {
		var seat domain.LayoutSeat

		err = rows.Scan(&seat.SeatID, &seat.Row, &seat.Col, &seat.Type, &seat.ExtraPrice)
		if err != nil {
			return nil, err
		}

		if !seenRows[seat.Row] {
			seenRows[seat.Row] = true
			layout.Rows++
		}

		if seat.Col > layout.Cols {
			layout.Cols = seat.Col
		}

		layout.Seats = append(layout.Seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(layout.Seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return &layout, nil
}
