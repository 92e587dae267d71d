package renderproxy

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxBodyInError caps how much of a failed response body is echoed in errors.
const maxBodyInError = 256

// TimeoutError is returned when the selector did not render in time, either
// reported by the proxy (408/504) or because the request deadline elapsed.
type TimeoutError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TimeoutError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("renderproxy: render of %s timed out (status %d)", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("renderproxy: render of %s timed out: %v", e.URL, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the proxy could not be reached or answered
// with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("renderproxy: render of %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("renderproxy: render of %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a successful response could not be
// decoded into any HTML document.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "renderproxy: malformed response: " + e.Reason
}

func statusError(url string, status int, body []byte) error {
	switch status {
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &TimeoutError{URL: url, StatusCode: status}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxBodyInError {
		cut := maxBodyInError
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return &TransportError{URL: url, StatusCode: status, Body: text}
}
