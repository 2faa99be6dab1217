package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/domain"
	"github.com/goliatone/go-content-blocks/embed"
	"github.com/goliatone/go-content-blocks/internal/frontend"
	"github.com/goliatone/go-content-blocks/preview"
	"github.com/google/uuid"
)

type apiFixture struct {
	mux      *nethttp.ServeMux
	svc      documents.Service
	doc      *documents.Document
	draft    *documents.Edition
	upstream string
}

func setupAPI(t *testing.T, upstream nethttp.HandlerFunc) (*apiFixture, func()) {
	t.Helper()

	server := httptest.NewServer(upstream)
	host, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)

	ctx := context.Background()
	draft, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Helpline Number",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	doc, err := svc.GetDocument(ctx, draft.DocumentID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}

	resolver := embed.NewResolver(svc)
	client := frontend.New(frontend.Config{WebsiteRoot: server.URL})
	urls := preview.NewURLBuilder("")

	api := NewAPI(
		WithDocumentService(svc),
		WithPreviewGenerator(preview.NewGenerator(svc, resolver, client, urls)),
		WithFormHandler(preview.NewFormHandler(preview.WithAllowedSuffix(host.Hostname()))),
		WithURLBuilder(urls),
	)

	mux := nethttp.NewServeMux()
	api.RegisterRoutes(mux)

	return &apiFixture{mux: mux, svc: svc, doc: doc, draft: draft, upstream: server.URL}, server.Close
}

func TestPreviewEndpointReturnsRewrittenHTML(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Write([]byte(`<html><head></head><body><a href="/next">next</a></body></html>`))
	})
	defer cleanup()

	req := httptest.NewRequest(nethttp.MethodGet, "/editions/"+f.draft.ID.String()+"/host-content/host-1/preview?base_path=/page&locale=en", nil)
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)

	if res.Code != nethttp.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := res.Body.String()
	if !strings.Contains(body, "gem-c-layout-for-public--draft") {
		t.Fatalf("expected rewritten page: %s", body)
	}
	if !strings.Contains(body, "base_path=%2Fnext") {
		t.Fatalf("expected rewritten link: %s", body)
	}
}

func TestPreviewEndpointUnknownEdition(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	req := httptest.NewRequest(nethttp.MethodGet, "/editions/"+uuid.NewString()+"/host-content/host-1/preview", nil)
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)

	if res.Code != nethttp.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestFormRelayEndpointRedirectsToPreview(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method == nethttp.MethodPost && r.URL.Path == "/submit" {
			if err := r.ParseForm(); err != nil {
				nethttp.Error(w, "bad form", nethttp.StatusBadRequest)
				return
			}
			if r.Form.Get("question") != "answer" {
				nethttp.Error(w, "missing field", nethttp.StatusBadRequest)
				return
			}
			w.Header().Set("Location", "/results?page=1")
			w.WriteHeader(nethttp.StatusFound)
			return
		}
		nethttp.NotFound(w, r)
	})
	defer cleanup()

	form := url.Values{
		"url":            {f.upstream + "/submit"},
		"method":         {"post"},
		"locale":         {"en"},
		"body[question]": {"answer"},
	}

	req := httptest.NewRequest(nethttp.MethodPost,
		"/editions/"+f.draft.ID.String()+"/host-content/host-1/form_handler",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)

	if res.Code != nethttp.StatusFound {
		t.Fatalf("expected 302 got %d: %s", res.Code, res.Body.String())
	}
	location := res.Header().Get("Location")
	if !strings.Contains(location, "/editions/"+f.draft.ID.String()+"/host-content/host-1/preview") {
		t.Fatalf("expected redirect to preview entry, got %q", location)
	}
	if !strings.Contains(location, url.QueryEscape("/results?page=1")) {
		t.Fatalf("expected relayed location as base_path, got %q", location)
	}
}

func TestFormRelayEndpointRejectsForeignHost(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	form := url.Values{
		"url":    {"https://gov.uk.fake.com/submit"},
		"method": {"post"},
	}

	req := httptest.NewRequest(nethttp.MethodPost,
		"/editions/"+f.draft.ID.String()+"/host-content/host-1/form_handler",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)

	if res.Code != nethttp.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", res.Code, res.Body.String())
	}
	var payload errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error != "unexpected_url" {
		t.Fatalf("expected unexpected_url got %q", payload.Error)
	}
}

func TestTransitionEndpointAppliesTransition(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	res := postTransition(t, f, f.draft.ID.String(), "ready_for_2i")

	if res.Code != nethttp.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}
	var outcome transitionOutcome
	if err := json.Unmarshal(res.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if !outcome.Success || outcome.State != domain.StateAwaitingReview {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestTransitionEndpointInvalidTransitionCompletes(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	// Draft editions cannot be superseded.
	res := postTransition(t, f, f.draft.ID.String(), "supersede")

	if res.Code != nethttp.StatusOK {
		t.Fatalf("invalid transition must complete the request, got %d", res.Code)
	}
	var outcome transitionOutcome
	if err := json.Unmarshal(res.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if outcome.Success {
		t.Fatal("expected failure outcome")
	}
	if outcome.Message == "" {
		t.Fatal("expected failure message")
	}

	edition, err := f.svc.GetEdition(context.Background(), f.draft.ID)
	if err != nil {
		t.Fatalf("get edition: %v", err)
	}
	if edition.State != domain.StateDraft {
		t.Fatalf("state must not move on failure, got %s", edition.State)
	}
}

func TestTransitionEndpointUnknownTransition(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	res := postTransition(t, f, f.draft.ID.String(), "unpublish")

	if res.Code != nethttp.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", res.Code, res.Body.String())
	}
	var payload errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Error != "unknown_transition" {
		t.Fatalf("expected unknown_transition got %q", payload.Error)
	}
}

func TestIframeScriptServed(t *testing.T) {
	f, cleanup := setupAPI(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {})
	defer cleanup()

	req := httptest.NewRequest(nethttp.MethodGet, "/assets/host-content-iframe.js", nil)
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)

	if res.Code != nethttp.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := res.Body.String()
	if !strings.Contains(body, "preview_frame_") {
		t.Fatalf("expected frame id prefix in controller: %s", body)
	}
	if !strings.Contains(body, "Turbo.visit") {
		t.Fatalf("expected frame-scoped navigation in controller: %s", body)
	}
}

func postTransition(t *testing.T, f *apiFixture, editionID, transition string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(transitionPayload{Transition: transition})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(nethttp.MethodPost, "/editions/"+editionID+"/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	f.mux.ServeHTTP(res, req)
	return res
}

