package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/seatwise/seat-reservation/api"
	"github.com/seatwise/seat-reservation/internal/domain"
	"github.com/seatwise/seat-reservation/internal/repository"
	"github.com/seatwise/seat-reservation/internal/reservation"
	"github.com/seatwise/seat-reservation/internal/validator"
	"github.com/stretchr/testify/require"
)

var (
	testSlot  = domain.Slot{ShowtimeID: 1, Date: "2025-06-01", StartTime: "20:30", RoomID: "room-1"}
	otherSlot = domain.Slot{ShowtimeID: 2, Date: "2025-06-01", StartTime: "23:00", RoomID: "room-1"}
)

type staticCatalog struct {
	layouts map[string]*domain.RoomLayout
}

func (c *staticCatalog) Layout(ctx context.Context, slot domain.Slot) (*domain.RoomLayout, error) {
	layout, ok := c.layouts[slot.RoomID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return layout, nil
}

// testLayout builds a small room: row A normal, row B vip, row C couple.
func testLayout() *domain.RoomLayout {
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

func newTestApplication(t *testing.T) (*Application, *repository.MemoryReservationStore) {
	t.Helper()

	layout := testLayout()
	store := repository.NewMemoryReservationStore()

	require.NoError(t, store.GenerateSlot(context.Background(), testSlot, layout))
	require.NoError(t, store.GenerateSlot(context.Background(), otherSlot, layout))

	catalog := &staticCatalog{layouts: map[string]*domain.RoomLayout{"room-1": layout}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &Application{
		config: Config{
			Env: "test",
			Holds: HoldConfig{
				Selection:    8 * time.Minute,
				BookNow:      5 * time.Minute,
				ReapInterval: time.Minute,
			},
		},
		logger:         logger,
		validator:      validator.NewValidator(),
		sessionManager: scs.New(),
		store:          store,
		catalog:        catalog,
		manager:        reservation.NewManager(store, catalog, logger),
	}

	return app, store
}

// testClient drives the full router and carries the session cookie across
// requests, so a sequence of calls acts as one holder.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestClient(t *testing.T, app *Application) *testClient {
	t.Helper()

	return &testClient{t: t, handler: app.Routes()}
}

func (c *testClient) do(method, url string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	r := httptest.NewRequest(method, url, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		r.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))

	return v
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 || wantErrMessage == "" {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&validationResp))

		// Domain rule rejections use the plain error shape.
		if len(validationResp.ValidationErrors) == 0 {
			require.Contains(t, validationResp.Message, wantErrMessage)
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("expected validation error message %q not found in response", wantErrMessage)
		}

	default:
		checkPlainError(t, w, wantErrMessage)
	}
}

func checkPlainError(t *testing.T, w *httptest.ResponseRecorder, wantErrMessage string) {
	t.Helper()

	var errorResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errorResp))
	require.Contains(t, errorResp.Message, wantErrMessage)
}

func seatState(t *testing.T, store *repository.MemoryReservationStore, slot domain.Slot, seatID string) domain.SeatInstance {
	t.Helper()

	seats, err := store.GetSeats(context.Background(), slot)
	require.NoError(t, err)

	for _, seat := range seats {
		if seat.SeatID == seatID {
			return seat
		}
	}

	t.Fatalf("seat %s not found in slot %s", seatID, slot.Key())
	return domain.SeatInstance{}
}
