package app

import (
	"log/slog"
	"net/http"
)

type sessionKey string

const (
	SessionKeyGuest = sessionKey("guest")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

func (app *Application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}

// contextGetHolderID returns the caller's holder identity. The session
// manager guarantees a committed token by the time handlers run, so an
// empty token indicates a wiring fault rather than an anonymous caller.
func (app *Application) contextGetHolderID(r *http.Request) string {
	token := app.sessionManager.Token(r.Context())
	if token == "" {
		panic("missing session token from context")
	}

	return token
}
