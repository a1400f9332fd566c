package remote

import (
	"errors"
	"fmt"
)

// RejectedError is a reply whose success flag was not true.
type RejectedError struct {
	Path     string
	Message  string
	Envelope *Envelope
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected by backend", e.Path)
	}
	return fmt.Sprintf("%s: rejected by backend: %s", e.Path, e.Message)
}

type StatusError struct {
	Path       string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.Path, e.Status)
}

func IsRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}

// ResponseBody returns the raw reply carried by err, if any.
func ResponseBody(err error) []byte {
	var r *RejectedError
	if errors.As(err, &r) && r.Envelope != nil {
		return r.Envelope.Body
	}
	var s *StatusError
	if errors.As(err, &s) {
		return s.Body
	}
	return nil
}
