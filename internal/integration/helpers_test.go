package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/seatwise/seat-reservation/internal/domain"
	"github.com/stretchr/testify/require"
)

var testSlot = domain.Slot{ShowtimeID: 1, Date: "2025-06-01", StartTime: "20:30", RoomID: "room-1"}

// testRoomLayout mirrors the seeded room_seats rows: row A normal, row B
// vip, row C couple.
func testRoomLayout() *domain.RoomLayout {
	var seats []domain.LayoutSeat

	addRow := func(row string, cols int, seatType domain.SeatType, extraPrice float64) {
		for col := 1; col <= cols; col++ {
			seats = append(seats, domain.LayoutSeat{
				SeatID:     fmt.Sprintf("%s%d", row, col),
				Row:        row,
				Col:        col,
				Type:       seatType,
				ExtraPrice: extraPrice,
			})
		}
	}

	addRow("A", 6, domain.SeatTypeNormal, 0)
	addRow("B", 4, domain.SeatTypeVIP, 5)
	addRow("C", 4, domain.SeatTypeCouple, 3)

	return &domain.RoomLayout{RoomID: "room-1", Rows: 3, Cols: 6, Seats: seats}
}

func seedRoom(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()
	layout := testRoomLayout()

	for _, seat := range layout.Seats {
		_, err := app.DB.Exec(ctx, `
			INSERT INTO room_seats (room_id, seat_id, seat_row, seat_col, seat_type, extra_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING
		`, layout.RoomID, seat.SeatID, seat.Row, seat.Col, string(seat.Type), seat.ExtraPrice)
		require.NoError(t, err)
	}
}

func resetSeatInstances(t testing.TB, app *TestApp) {
	t.Helper()

	_, err := app.DB.Exec(context.Background(), `TRUNCATE seat_instances`)
	require.NoError(t, err)
}

func generateTestSlot(t testing.TB, app *TestApp, slot domain.Slot) {
	t.Helper()

	err := app.Store.GenerateSlot(context.Background(), slot, testRoomLayout())
	require.NoError(t, err)
}

func seatInstance(t testing.TB, app *TestApp, slot domain.Slot, seatID string) domain.SeatInstance {
	t.Helper()

	seats, err := app.Store.GetSeats(context.Background(), slot)
	require.NoError(t, err)

	for _, seat := range seats {
		if seat.SeatID == seatID {
			return seat
		}
	}

	t.Fatalf("seat %s not found in slot %s", seatID, slot.Key())
	return domain.SeatInstance{}
}

var keysToIgnore = map[string]struct{}{
	"timestamp":     {},
	"requestId":     {},
	"holdExpiresAt": {},
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func decodeBody[T any](t testing.TB, body io.Reader) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))

	return v
}

func slotBody(slot domain.Slot, seatIDs ...string) string {
	ids, _ := json.Marshal(seatIDs)

	return fmt.Sprintf(`{"date": %q, "startTime": %q, "roomId": %q, "seatIds": %s}`,
		slot.Date, slot.StartTime, slot.RoomID, ids)
}

func seatMapPath(slot domain.Slot) string {
	return fmt.Sprintf("/showtimes/%d/seats?date=%s&startTime=%s&roomId=%s",
		slot.ShowtimeID, slot.Date, slot.StartTime, slot.RoomID)
}
