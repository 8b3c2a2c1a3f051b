package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/seatwise/seat-reservation/api"
	"github.com/seatwise/seat-reservation/internal/domain"
	appvalidator "github.com/seatwise/seat-reservation/internal/validator"
)

const ErrInternalServer = "The server encountered a problem and could not process your request"

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiErrors := make([]api.ValidationError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		apiErrors = append(apiErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:          "The request contains invalid fields",
		ValidationErrors: apiErrors,
	}

	if err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil); err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, conflictErr *domain.ConflictError) {
	resp := api.ConflictResponse{
		Message:   "Some of the selected seats are no longer available",
		Conflicts: conflictErr.SeatIDs,
	}

	if err := app.writeJSON(w, http.StatusConflict, resp, nil); err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// reservationErrorResponse maps the reservation error taxonomy onto HTTP
// statuses: validator rejections are 422, catalog desyncs 404, conflicts
// 409, ownership faults 403, missing holds 404.
func (app *Application) reservationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflictErr    *domain.ConflictError
		unknownErr     *domain.UnknownSeatError
		validationErr  *domain.ValidationError
		ownershipErr   *domain.OwnershipError
		notReservedErr *domain.NotReservedError
	)

	switch {
	case errors.As(err, &conflictErr):
		app.seatConflictResponse(w, r, conflictErr)

	case errors.As(err, &unknownErr):
		app.errorResponse(w, r, http.StatusNotFound, unknownErr.Error())

	case errors.As(err, &validationErr):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, validationErr.Error())

	case errors.As(err, &ownershipErr):
		app.errorResponse(w, r, http.StatusForbidden, ownershipErr.Error())

	case errors.As(err, &notReservedErr):
		app.errorResponse(w, r, http.StatusNotFound, notReservedErr.Error())

	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)

	default:
		app.serverErrorResponse(w, r, err)
	}
}
