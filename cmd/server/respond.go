package main

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
)

const maxRequestBody = 1 << 20

const typeBadRequest apperrors.Type = "BAD_REQUEST"

type errorResponse struct {
	Error *apperrors.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(typeBadRequest, "invalid request body", err)
	}
	return nil
}

func statusFor(err error) int {
	e, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Type {
	case typeBadRequest:
		return http.StatusBadRequest
	case apperrors.TypeConfiguration:
		return http.StatusUnprocessableEntity
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeSubmission:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	e, ok := apperrors.As(err)
	if !ok {
		e = apperrors.New("INTERNAL_ERROR", "internal error")
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	// Causes stay in the log; only the classified message is returned.
	writeJSON(w, status, errorResponse{Error: &apperrors.Error{
		Type:      e.Type,
		Message:   e.Message,
		Field:     e.Field,
		Retryable: e.Retryable,
	}})
}
