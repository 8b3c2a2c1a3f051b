package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seatwise/seat-reservation/internal/domain"
)

// PostgresReservationStore persists seat instances in Postgres. The atomic
// compare-and-set contract is realized with conditional UPDATEs evaluated
// under row locks: a transition is applied only where the current row state
// matches the operation's precondition, so two racing callers can never both
// claim the same seat.
type PostgresReservationStore struct {
	db *pgxpool.Pool
}

func NewPostgresReservationStore(db *pgxpool.Pool) *PostgresReservationStore {
	return &PostgresReservationStore{
		db: db,
	}
}

const slotPredicate = `showtime_id = $1 AND show_date = $2 AND start_time = $3 AND room_id = $4`

func (p *PostgresReservationStore) GetSeats(ctx context.Context, slot domain.Slot) ([]domain.SeatInstance, error) {
	query := `
		SELECT seat_id, seat_type, status, COALESCE(holder_id, ''), hold_expires_at
		FROM seat_instances
		WHERE ` + slotPredicate + `
		ORDER BY seat_id
	`

	rows, err := p.db.Query(ctx, query, slot.ShowtimeID, slot.Date, slot.StartTime, slot.RoomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.SeatInstance, 0)

	for rows.Next() {
		seat := domain.SeatInstance{Slot: slot}

		err = rows.Scan(&seat.SeatID, &seat.Type, &seat.Status, &seat.HolderID, &seat.HoldExpiresAt)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// A slot with no instance rows was never generated.
	if len(seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return seats, nil
}

func (p *PostgresReservationStore) Reserve(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string,
	expiresAt time.Time) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		// Lock the target rows and evaluate claimability in one place,
		// against the database clock. A lapsed hold counts as available;
		// the reservation attempt is itself the lazy expiry path.
		query := `
			SELECT
				seat_id,
				status = 'available' OR (status = 'reserved' AND hold_expires_at <= NOW())
			FROM seat_instances
			WHERE ` + slotPredicate + ` AND seat_id = ANY($5)
			FOR UPDATE
		`

		rows, err := tx.Query(ctx, query, slot.ShowtimeID, slot.Date, slot.StartTime, slot.RoomID, seatIDs)
		if err != nil {
			return err
		}

		claimable := make(map[string]bool, len(seatIDs))

		for rows.Next() {
			var seatID string
			var ok bool

			if err := rows.Scan(&seatID, &ok); err != nil {
				rows.Close()
				return err
			}

			claimable[seatID] = ok
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		var unknown, conflicts []string

		for _, seatID := range seatIDs {
			ok, found := claimable[seatID]

			switch {
			case !found:
				unknown = append(unknown, seatID)
			case !ok:
				conflicts = append(conflicts, seatID)
			}
		}

		if len(unknown) > 0 {
			return &domain.UnknownSeatError{SeatIDs: unknown}
		}

		if len(conflicts) > 0 {
			return &domain.ConflictError{SeatIDs: conflicts}
		}

		update := `
			UPDATE seat_instances
			SET status = 'reserved', holder_id = $5, hold_expires_at = $6, updated_at = NOW()
			WHERE ` + slotPredicate + ` AND seat_id = ANY($7)
		`

		tag, err := tx.Exec(
			ctx,
			update,
			slot.ShowtimeID,
			slot.Date,
			slot.StartTime,
			slot.RoomID,
			holderID,
			expiresAt,
			seatIDs,
		)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) != len(seatIDs) {
			return errors.New("reserve updated an unexpected number of rows")
		}

		return nil
	})
}

func (p *PostgresReservationStore) Confirm(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT
				seat_id,
				COALESCE(holder_id, ''),
				status = 'reserved' AND hold_expires_at > NOW()
			FROM seat_instances
			WHERE ` + slotPredicate + ` AND seat_id = ANY($5)
			FOR UPDATE
		`

		rows, err := tx.Query(ctx, query, slot.ShowtimeID, slot.Date, slot.StartTime, slot.RoomID, seatIDs)
		if err != nil {
			return err
		}

		type holdState struct {
			holder string
			live   bool
		}

		states := make(map[string]holdState, len(seatIDs))

		for rows.Next() {
			var seatID string
			var state holdState

			if err := rows.Scan(&seatID, &state.holder, &state.live); err != nil {
				rows.Close()
				return err
			}

			states[seatID] = state
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		var notReserved, owned []string

		for _, seatID := range seatIDs {
			state, found := states[seatID]

			switch {
			case !found || !state.live:
				notReserved = append(notReserved, seatID)
			case state.holder != holderID:
				owned = append(owned, seatID)
			}
		}

		// A seat held by someone else is a caller integrity fault and
		// outranks a merely stale hold.
		if len(owned) > 0 {
			return &domain.OwnershipError{SeatIDs: owned}
		}

		if len(notReserved) > 0 {
			return &domain.NotReservedError{SeatIDs: notReserved}
		}

		update := `
			UPDATE seat_instances
			SET status = 'occupied', hold_expires_at = NULL, updated_at = NOW()
			WHERE ` + slotPredicate + ` AND seat_id = ANY($5)
		`

		tag, err := tx.Exec(ctx, update, slot.ShowtimeID, slot.Date, slot.StartTime, slot.RoomID, seatIDs)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) != len(seatIDs) {
			return errors.New("confirm updated an unexpected number of rows")
		}

		return nil
	})
}

func (p *PostgresReservationStore) Release(
	ctx context.Context,
	slot domain.Slot,
	seatIDs []string,
	holderID string) (int, error) {

	query := `
		UPDATE seat_instances
		SET status = 'available', holder_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE ` + slotPredicate + `
			AND seat_id = ANY($5)
			AND status = 'reserved'
			AND ($6 = '' OR holder_id = $6)
	`

	tag, err := p.db.Exec(
		ctx,
		query,
		slot.ShowtimeID,
		slot.Date,
		slot.StartTime,
		slot.RoomID,
		seatIDs,
		holderID,
	)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresReservationStore) ReleaseAllForHolder(ctx context.Context, holderID string) (int, error) {
	query := `
		UPDATE seat_instances
		SET status = 'available', holder_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE status = 'reserved' AND holder_id = $1
	`

	tag, err := p.db.Exec(ctx, query, holderID)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresReservationStore) ReleaseExpired(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE seat_instances
		SET status = 'available', holder_id = NULL, hold_expires_at = NULL, updated_at = NOW()
		WHERE status = 'reserved' AND hold_expires_at <= $1
	`

	tag, err := p.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresReservationStore) GenerateSlot(ctx context.Context, slot domain.Slot, layout *domain.RoomLayout) error {
	rows := make([][]any, 0, len(layout.Seats))
	for _, seat := range layout.Seats {
		rows = append(rows, []any{
			slot.ShowtimeID,
			slot.Date,
			slot.StartTime,
			slot.RoomID,
			seat.SeatID,
			string(seat.Type),
			string(domain.SeatStatusAvailable),
		})
	}

	_, err := p.db.CopyFrom(
		ctx,
		pgx.Identifier{"seat_instances"},
		[]string{"showtime_id", "show_date", "start_time", "room_id", "seat_id", "seat_type", "status"},
		pgx.CopyFromRows(rows),
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateSlot
		}

		return err
	}

	return nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
