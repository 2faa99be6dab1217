package preview

import "fmt"

// UnexpectedURLError reports a relay target outside the allowed public
// suffix. It is raised before any outbound request is made.
type UnexpectedURLError struct {
	URL string
}

func (e *UnexpectedURLError) Error() string {
	return fmt.Sprintf("preview: unexpected relay url %q", e.URL)
}

// UnexpectedResponseError reports a relay upstream that answered with
// anything other than a redirect.
type UnexpectedResponseError struct {
	URL        string
	StatusCode int
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("preview: unexpected response status %d from %q", e.StatusCode, e.URL)
}
