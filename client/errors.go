// ABOUTME: Transport error taxonomy for the REST client
// ABOUTME: Network failures and non-2xx responses are distinct, inspectable types
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrMissingID is returned when an update or delete targets a record that
// was never persisted.
var ErrMissingID = errors.New("entity has no id")

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response outside the 2xx range. Title, Message and
// ErrorKey are filled from a problem body when the server sent one.
type HTTPError struct {
	StatusCode int
	Title      string
	Message    string
	ErrorKey   string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("request failed with status code %d", e.StatusCode)
	if e.Title != "" {
		msg += ": " + e.Title
	}
	return msg
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}

func newHTTPError(resp *http.Response) *HTTPError {
	he := &HTTPError{StatusCode: resp.StatusCode}

	var body struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		ErrorKey string `json:"errorKey"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && json.Unmarshal(data, &body) == nil {
		he.Title = body.Title
		he.Message = body.Message
		he.ErrorKey = body.ErrorKey
	}
	return he
}
