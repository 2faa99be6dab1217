package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/preview"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *documents.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		}
	}

	var unknownTransition *documents.UnknownTransitionError
	if errors.As(err, &unknownTransition) {
		return http.StatusBadRequest, errorResponse{
			Error:   "unknown_transition",
			Message: unknownTransition.Error(),
		}
	}

	var unexpectedURL *preview.UnexpectedURLError
	if errors.As(err, &unexpectedURL) {
		return http.StatusBadRequest, errorResponse{
			Error:   "unexpected_url",
			Message: unexpectedURL.Error(),
		}
	}

	var unexpectedResponse *preview.UnexpectedResponseError
	if errors.As(err, &unexpectedResponse) {
		return http.StatusBadRequest, errorResponse{
			Error:   "unexpected_response",
			Message: unexpectedResponse.Error(),
		}
	}

	if errors.Is(err, documents.ErrAliasExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, documents.ErrDetailsInvalid) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	}

	if errors.Is(err, documents.ErrDocumentIDRequired) ||
		errors.Is(err, documents.ErrEditionIDRequired) ||
		errors.Is(err, documents.ErrTitleRequired) ||
		errors.Is(err, documents.ErrBlockTypeRequired) ||
		errors.Is(err, documents.ErrBlockTypeUnknown) ||
		errors.Is(err, documents.ErrScheduledPublicationRequired) ||
		errors.Is(err, documents.ErrScheduledPublicationPast) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}
