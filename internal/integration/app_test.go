package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seatwise/seat-reservation/internal/app"
	"github.com/seatwise/seat-reservation/internal/repository"
)

// TestApp bundles the wired application with a direct database handle so
// tests can seed and inspect state behind the HTTP surface.
type TestApp struct {
	App     *app.Application
	DB      *pgxpool.Pool
	Store   *repository.PostgresReservationStore
	Catalog *repository.PostgresSeatCatalog
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	return &TestApp{
		App:     application,
		DB:      db,
		Store:   repository.NewPostgresReservationStore(db),
		Catalog: repository.NewPostgresSeatCatalog(db),
	}, nil
}

func (a *TestApp) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.App != nil {
		a.App.Close()
	}
}
