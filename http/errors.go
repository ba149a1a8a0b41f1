package http

import (
	"encoding/json"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"teamscore/ml"
)

// ErrorKind classifies failures of the prediction endpoint.
type ErrorKind string

const (
	KindModelUnavailable ErrorKind = "ModelUnavailable"
	KindInvalidInput     ErrorKind = "InvalidInput"
	KindMissingFeature   ErrorKind = "MissingFeature"
	KindInvalidValue     ErrorKind = "InvalidValue"
	KindInternalError    ErrorKind = "InternalError"
)

func (k ErrorKind) Status() int {
	switch k {
	case KindInvalidInput, KindMissingFeature, KindInvalidValue:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// APIError is an endpoint failure rendered as {"error": Message}.
type APIError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func newAPIError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

func (e *APIError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

var errModelUnavailable = newAPIError(KindModelUnavailable, "Model not loaded")

// decodeError maps record decoding and encoding failures onto the taxonomy.
func decodeError(err error) *APIError {
	var (
		missing *ml.MissingFieldError
		invalid *ml.InvalidValueError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig):
		return &APIError{Kind: KindInvalidInput, Message: "Request body too large", cause: err}
	case errors.Is(err, ml.ErrEmptyRecord):
		return &APIError{Kind: KindInvalidInput, Message: "No input data received", cause: err}
	case errors.Is(err, ml.ErrMalformedRecord):
		return &APIError{Kind: KindInvalidInput, Message: "Invalid input data: expected a JSON object", cause: err}
	case errors.As(err, &missing):
		return &APIError{Kind: KindMissingFeature, Message: capitalize(missing.Error()), cause: err}
	case errors.As(err, &invalid):
		return &APIError{Kind: KindInvalidValue, Message: capitalize(invalid.Error()), cause: err}
	case errors.Is(err, ml.ErrUnknownCategory):
		return &APIError{Kind: KindInvalidValue, Message: "Unrecognized category: " + err.Error(), cause: err}
	default:
		return internalError(err)
	}
}

func internalError(err error) *APIError {
	return &APIError{
		Kind:    KindInternalError,
		Message: "An error occurred during prediction: " + err.Error(),
		cause:   err,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *zap.Logger, apiErr *APIError) {
	writeJSON(w, logger, apiErr.Kind.Status(), errorResponse{Error: apiErr.Message})
}

// writeJSON encodes v before touching the response so an encoding failure
// still produces a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "Failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
