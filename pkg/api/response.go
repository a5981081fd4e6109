package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeValidationFailed = "validation_failed"
	CodeUnavailable      = "unavailable"
	CodeInternalError    = "internal_error"
)

// JSONResponse is the envelope of every response body.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details maps field paths to
// messages for validation failures.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// HTTPError is an error with a status and code chosen by the handler.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

func badRequest(msg string, err error) HTTPError {
	return HTTPError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: msg, Err: err}
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, JSONResponse{Data: data})
}

// errorDetail maps err to a status and envelope error.
func errorDetail(err error) (int, *ErrorDetail) {
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    CodeValidationFailed,
			Message: "validation failed",
			Details: errs.ByField(),
		}
	}

	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		msg := httpErr.Message
		if httpErr.Err != nil && httpErr.Status < http.StatusInternalServerError {
			msg = httpErr.Error()
		}
		return httpErr.Status, &ErrorDetail{Code: httpErr.Code, Message: msg}
	case errors.Is(err, formstore.ErrNotFound):
		return http.StatusNotFound, &ErrorDetail{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, formstore.ErrInvalidName),
		errors.Is(err, formstore.ErrInvalidDefinition),
		errors.Is(err, validator.ErrUnknownRule),
		errors.Is(err, validator.ErrInvalidParams):
		return http.StatusBadRequest, &ErrorDetail{Code: CodeBadRequest, Message: err.Error()}
	case errors.Is(err, formstore.ErrStoreUnavailable), errors.Is(err, formstore.ErrHealthcheckFailed):
		return http.StatusServiceUnavailable, &ErrorDetail{Code: CodeUnavailable, Message: "form store unavailable"}
	}
	return http.StatusInternalServerError, &ErrorDetail{Code: CodeInternalError, Message: http.StatusText(http.StatusInternalServerError)}
}
