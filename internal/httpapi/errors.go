package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/schoollibrary/circulation/library/core"
	"github.com/schoollibrary/circulation/library/shell"
)

// Error codes of the {"error":{"code","message"}} envelope.
const (
	CodeValidationError             = "VALIDATION_ERROR"
	CodeNotFound                    = "NOT_FOUND"
	CodeStaffIDRequired             = "STAFF_ID_REQUIRED"
	CodeBorrowerBanned              = "BORROWER_BANNED"
	CodeOutOfStock                  = "OUT_OF_STOCK"
	CodeInvalidStateTransition      = "INVALID_STATE_TRANSITION"
	CodePenaltyConfirmationRequired = "PENALTY_CONFIRMATION_REQUIRED"
	CodeDuplicateOpenBorrow         = "DUPLICATE_OPEN_BORROW"
	CodeDuplicateISBN               = "DUPLICATE_ISBN"
	CodeConcurrencyConflict         = "CONCURRENCY_CONFLICT"
	CodeTimeout                     = "TIMEOUT"
	CodeInternalError               = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes the error envelope.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorBody{Error: errorDetail{Code: code, Message: message}})
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{core.ErrValidation, http.StatusBadRequest, CodeValidationError},
	{core.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{core.ErrBanned, http.StatusForbidden, CodeBorrowerBanned},
	{core.ErrOutOfStock, http.StatusConflict, CodeOutOfStock},
	{core.ErrInvalidStateTransition, http.StatusConflict, CodeInvalidStateTransition},
	{core.ErrPenaltyConfirmationRequired, http.StatusConflict, CodePenaltyConfirmationRequired},
	{core.ErrDuplicateOpenBorrow, http.StatusConflict, CodeDuplicateOpenBorrow},
	{core.ErrDuplicateISBN, http.StatusConflict, CodeDuplicateISBN},
	{shell.ErrConcurrencyConflict, http.StatusConflict, CodeConcurrencyConflict},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
}

// statusOf maps an error of the circulation service to a status code and an error code.
func statusOf(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}

	return http.StatusInternalServerError, CodeInternalError
}

// writeServiceError hides the details of unexpected failures; they are logged instead.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)

		WriteError(w, status, code, "internal error")

		return
	}

	WriteError(w, status, code, err.Error())
}
