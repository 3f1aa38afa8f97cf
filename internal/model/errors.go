package model

import (
	"errors"
	"fmt"
)

// ErrChannelNotFound is returned when a name resolves to nothing, or when a
// resolved channel ID yields no channel.
var ErrChannelNotFound = errors.New("channel not found")

// UpstreamError is a failed call to the YouTube Data API. StatusCode is 0 when
// no HTTP response was received (transport failure, timeout, undecodable body).
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 && e.Body == "" && e.Err != nil {
		return fmt.Sprintf("youtube api error (%s): %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("youtube api error %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
