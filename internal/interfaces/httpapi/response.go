package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

// Responses follow the Google JSON style guide envelope.
const (
	apiVersion  = "2.0"
	errorDomain = "matchday-alerts"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass is how one usecase sentinel renders over HTTP.
type errorClass struct {
	target error
	status int
	code   string
	reason string
}

var errorClasses = []errorClass{
	{target: usecase.ErrInvalidInput, status: http.StatusBadRequest, code: "INVALID_ARGUMENT", reason: "invalidInput"},
	{target: usecase.ErrNotFound, status: http.StatusNotFound, code: "NOT_FOUND", reason: "notFound"},
	{target: usecase.ErrUnauthorized, status: http.StatusUnauthorized, code: "UNAUTHENTICATED", reason: "unauthorized"},
	{target: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable, code: "UNAVAILABLE", reason: "dependencyUnavailable"},
}

var internalErrorClass = errorClass{status: http.StatusInternalServerError, code: "INTERNAL", reason: "internalError"}

func classifyError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err by its sentinel. Unclassified errors are recorded on
// the active span and reach the client only as "internal server error".
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := err.Error()
	if class.status == http.StatusInternalServerError {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		message = "internal server error"
	}

	writeJSON(w, class.status, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.status,
			Message: message,
			Status:  class.code,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	})
}
