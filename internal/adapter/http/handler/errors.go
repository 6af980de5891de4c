package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// Fall back to an empty 500 when the body cannot be encoded.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// The request was well-formed but its content cannot be processed; repeating it
// without modification will fail the same way.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, envelope{
		"kind":    types.KindValidation,
		"code":    types.ErrInvalidInput.Code,
		"message": "request validation failed",
		"fields":  errors,
	})
}

// badRequestResponse returns 400 BadRequest status for malformed requests.
func badRequestResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusBadRequest, envelope{
		"kind":    types.KindValidation,
		"code":    "bad_request",
		"message": message,
	})
}

// internalErrorResponse returns 500 InternalServerError status
func internalErrorResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusInternalServerError, message)
}

var kindStatus = map[types.Kind]int{
	types.KindValidation:         http.StatusUnprocessableEntity,
	types.KindPermission:         http.StatusForbidden,
	types.KindNotFound:           http.StatusNotFound,
	types.KindStateConflict:      http.StatusConflict,
	types.KindUpstreamDependency: http.StatusBadGateway,
	types.KindWriteConflict:      http.StatusConflict,
	types.KindInternal:           http.StatusInternalServerError,
}

// GetCode maps an engine error to its HTTP status.
func GetCode(err error) int {
	if errors.Is(err, types.ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	if status, ok := kindStatus[types.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// serviceErrorResponse logs err at a level matching its kind and writes the classified body.
// Client side kinds go to WARN, the rest to ERROR.
func serviceErrorResponse(ctx context.Context, w http.ResponseWriter, l logger.Logger, msg string, err error) {
	ctx = wrap.ErrorCtx(ctx, err)
	e := types.AsError(err)

	switch e.Kind {
	case types.KindValidation, types.KindStateConflict, types.KindNotFound, types.KindPermission:
		l.Warn(ctx, msg, "kind", e.Kind, "code", e.Code, "error", err.Error())
	default:
		l.Error(ctx, msg, err, "kind", e.Kind, "code", e.Code)
	}

	body := envelope{
		"kind":    e.Kind,
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Remaining != nil {
		body["remaining_seats"] = *e.Remaining
	}
	errorResponse(w, GetCode(err), body)
}
