package common

import "fmt"

var (
	ErrPageFetch              = fmt.Errorf("cannot fetch page")
	ErrNoLinksFound           = fmt.Errorf("no links found")
	ErrBadStatus              = fmt.Errorf("bad response status")
	ErrDownloadAlreadyStarted = fmt.Errorf("download process has already started")
	ErrEmptyFileName          = fmt.Errorf("empty file name")
)

// StatusError is returned when a server answers with anything but 200 OK.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}
