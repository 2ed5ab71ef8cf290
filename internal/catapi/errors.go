package catapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNetwork wraps transport failures: DNS, refused connections, TLS, timeouts.
	ErrNetwork = errors.New("network error")
	// ErrHTTPStatus matches any *StatusError.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrDecode means the search response was not the expected JSON shape.
	ErrDecode = errors.New("malformed search response")
	// ErrNoResult means the search succeeded with zero candidates.
	ErrNoResult = errors.New("the search returned no candidates")
	// ErrTooLarge means a download exceeded the configured cap.
	ErrTooLarge = errors.New("image exceeds size limit")
)

// StatusError is returned when an endpoint responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Is reports whether target is ErrHTTPStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// maxErrorBody limits how much of an error response is kept.
const maxErrorBody = 512

func readError(url string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		URL:        url,
		Body:       strings.TrimSpace(string(body)),
	}
}
