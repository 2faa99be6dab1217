package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-content-blocks/internal/logging"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
)

// DefaultAllowedSuffix restricts relay targets to the public sector domain.
const DefaultAllowedSuffix = "gov.uk"

// DefaultRelayTimeout bounds a single relay call.
const DefaultRelayTimeout = 10 * time.Second

// FormHandler replays a form submission captured inside the preview iframe
// against the external site and hands back where the site redirected to.
// Exactly one outbound call is made per relay and redirects are never
// followed.
type FormHandler struct {
	suffix string
	http   *http.Client
	logger interfaces.Logger
}

// FormHandlerOption configures a FormHandler.
type FormHandlerOption func(*FormHandler)

// WithAllowedSuffix overrides the domain suffix relay targets must sit
// under.
func WithAllowedSuffix(suffix string) FormHandlerOption {
	return func(h *FormHandler) {
		if suffix != "" {
			h.suffix = suffix
		}
	}
}

// WithRelayTimeout overrides the transport timeout.
func WithRelayTimeout(timeout time.Duration) FormHandlerOption {
	return func(h *FormHandler) {
		if timeout > 0 {
			h.http.Timeout = timeout
		}
	}
}

// WithFormHandlerLogger overrides the relay logger.
func WithFormHandlerLogger(logger interfaces.Logger) FormHandlerOption {
	return func(h *FormHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewFormHandler constructs a form relay.
func NewFormHandler(opts ...FormHandlerOption) *FormHandler {
	h := &FormHandler{
		suffix: DefaultAllowedSuffix,
		http: &http.Client{
			Timeout: DefaultRelayTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logging.NoOp(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// RelayRequest carries a captured form submission.
type RelayRequest struct {
	// URL is the form's original, fully qualified action.
	URL string
	// Method is the form's original method. Anything other than GET relays
	// as a URL-encoded form POST.
	Method string
	// Body holds the relayed form fields.
	Body url.Values
}

// RelayLocation replays the submission and returns the path and query of the
// redirect the external site answered with. A 302 is the only accepted
// outcome.
func (h *FormHandler) RelayLocation(ctx context.Context, req RelayRequest) (string, error) {
	target, err := url.Parse(req.URL)
	if err != nil || !h.hostAllowed(target.Hostname()) {
		return "", &UnexpectedURLError{URL: req.URL}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}

	var outbound *http.Request
	if method == http.MethodGet {
		if len(req.Body) > 0 {
			query := target.Query()
			for key, values := range req.Body {
				for _, value := range values {
					query.Add(key, value)
				}
			}
			target.RawQuery = query.Encode()
		}
		outbound, err = http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	} else {
		outbound, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(req.Body.Encode()))
		if outbound != nil {
			outbound.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return "", fmt.Errorf("preview: build relay request: %w", err)
	}

	res, err := h.http.Do(outbound)
	if err != nil {
		return "", fmt.Errorf("preview: relay %s: %w", req.URL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusFound {
		return "", &UnexpectedResponseError{URL: req.URL, StatusCode: res.StatusCode}
	}

	location, err := url.Parse(res.Header.Get("Location"))
	if err != nil {
		return "", fmt.Errorf("preview: parse relay location: %w", err)
	}

	h.logger.Debug("form relay redirected", "url", req.URL, "location", location.String())

	return requestURI(location), nil
}

// hostAllowed requires the host to be the allowed suffix or a subdomain of
// it. A host that merely contains the suffix elsewhere is rejected.
func (h *FormHandler) hostAllowed(host string) bool {
	if host == "" {
		return false
	}
	return host == h.suffix || strings.HasSuffix(host, "."+h.suffix)
}

// requestURI strips scheme and host, keeping path plus query.
func requestURI(u *url.URL) string {
	uri := u.Path
	if uri == "" {
		uri = "/"
	}
	if u.RawQuery != "" {
		uri += "?" + u.RawQuery
	}
	return uri
}
