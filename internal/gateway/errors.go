package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned (wrapped) when the server has no such dataset.
var ErrNotFound = errors.New("dataset not found")

// TransportError covers everything else that keeps a request from producing
// a usable body: network failure, non-success status, undecodable payload.
type TransportError struct {
	Op     string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %d %s", e.Op, e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
