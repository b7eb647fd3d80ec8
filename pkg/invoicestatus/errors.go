package invoicestatus

import (
	"fmt"
	"net/http"
)

// StatusError is returned when the dashboard answers outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response %d %s", e.Code, http.StatusText(e.Code))
}

// PanicError wraps a panic raised while sending a request.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during status update: %v", e.Value)
}
