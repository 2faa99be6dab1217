package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/domain"
	"github.com/goliatone/go-content-blocks/preview"
)

// relayFieldPrefix wraps form fields the preview proxy renamed so the relay
// can separate them from its own routing parameters.
const relayFieldPrefix = "body["

func (api *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.documents == nil || api.generator == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	editionID, err := parseUUID(r.PathValue("edition_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid edition id"})
		return
	}

	edition, err := api.documents.GetEdition(r.Context(), editionID)
	if err != nil {
		writeError(w, err)
		return
	}

	html, err := api.generator.Generate(r.Context(), preview.GenerateRequest{
		Edition:       edition,
		HostContentID: r.PathValue("host_content_id"),
		BasePath:      r.URL.Query().Get("base_path"),
		Locale:        r.URL.Query().Get("locale"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (api *API) handleFormRelay(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.relay == nil || api.urls == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	editionID := r.PathValue("edition_id")
	if _, err := parseUUID(editionID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid edition id"})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid form payload"})
		return
	}

	target := r.Form.Get("url")
	method := r.Form.Get("method")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "url parameter required"})
		return
	}

	location, err := api.relay.RelayLocation(r.Context(), preview.RelayRequest{
		URL:    target,
		Method: method,
		Body:   relayFields(r.Form),
	})
	if err != nil {
		api.logger.Warn("form relay failed", "url", target, "error", err)
		writeError(w, err)
		return
	}

	entryURL, err := api.urls.EntryURL(editionID, r.PathValue("host_content_id"), r.Form.Get("locale"), location)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, entryURL, http.StatusFound)
}

// relayFields unwraps body[...] form fields back to their original names.
// Everything else on the request belongs to the relay itself.
func relayFields(form url.Values) url.Values {
	fields := url.Values{}
	for key, values := range form {
		if !strings.HasPrefix(key, relayFieldPrefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		name := key[len(relayFieldPrefix) : len(key)-1]
		if name == "" {
			continue
		}
		for _, value := range values {
			fields.Add(name, value)
		}
	}
	return fields
}

type transitionPayload struct {
	Transition string `json:"transition"`
}

type transitionOutcome struct {
	Success bool         `json:"success"`
	State   domain.State `json:"state,omitempty"`
	Message string       `json:"message,omitempty"`
}

// handleTransition applies a named workflow transition. An invalid
// transition is a completed request with a failure outcome; an unrecognised
// transition name is a caller error.
func (api *API) handleTransition(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.documents == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	editionID, err := parseUUID(r.PathValue("edition_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid edition id"})
		return
	}

	var payload transitionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid payload"})
		return
	}

	transition, err := documents.ParseTransition(payload.Transition)
	if err != nil {
		writeError(w, err)
		return
	}

	edition, err := api.documents.ApplyTransition(r.Context(), documents.TransitionRequest{
		EditionID:  editionID,
		Transition: transition,
	})
	if err != nil {
		var invalid *documents.InvalidTransitionError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusOK, transitionOutcome{
				Success: false,
				State:   invalid.State,
				Message: invalid.Error(),
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionOutcome{
		Success: true,
		State:   edition.State,
	})
}
