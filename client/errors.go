package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyTranscript is returned when the input is empty after trimming.
	ErrEmptyTranscript = errors.New("empty transcript")

	// ErrBusy is returned when a submit arrives while another is pending.
	ErrBusy = errors.New("analysis already in progress")

	// ErrAnalysisFailed wraps every transport, status or decoding failure.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// StatusError is returned for any non-2xx answer from the analysis endpoint.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("POST %s: unexpected status %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
