package apperr

import "net/http"

// AppError is an error that knows which HTTP status it maps to.
type AppError interface {
	error
	HTTPStatus() int
}

type appErr struct {
	message    string
	httpStatus int
}

func (e appErr) Error() string {
	return e.message
}

func (e appErr) HTTPStatus() int {
	return e.httpStatus
}

// NotFound signals that the requested entity does not exist.
func NotFound(text string) AppError {
	if text == "" {
		text = "not found"
	}
	return appErr{message: text, httpStatus: http.StatusNotFound}
}

// Forbidden signals an authenticated caller lacking the required capability.
func Forbidden(text string) AppError {
	if text == "" {
		text = "forbidden"
	}
	return appErr{message: text, httpStatus: http.StatusForbidden}
}

// Unauthorized signals a missing, invalid or expired credential.
func Unauthorized(text string) AppError {
	if text == "" {
		text = "not authorized"
	}
	return appErr{message: text, httpStatus: http.StatusUnauthorized}
}

// Conflict signals a duplicate (email, pending request).
func Conflict(text string) AppError {
	return appErr{message: text, httpStatus: http.StatusConflict}
}

// Validation signals missing or malformed request fields.
func Validation(text string) AppError {
	return appErr{message: text, httpStatus: http.StatusBadRequest}
}

// Internal hides store/transport failures behind a generic message.
func Internal() AppError {
	return appErr{message: "internal server error", httpStatus: http.StatusInternalServerError}
}

// Status returns the HTTP status for err, defaulting to 500 for plain errors.
func Status(err error) int {
	if ae, ok := err.(AppError); ok {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err. Plain errors are masked so
// stack traces and driver details never reach the response body.
func Message(err error) string {
	if ae, ok := err.(AppError); ok {
		return ae.Error()
	}
	return "internal server error"
}
