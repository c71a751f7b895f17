package core

import (
	"errors"
	"fmt"
)

// ErrMissingCredential means no API credential is configured. Callers surface
// it as a user-facing message; it is never retried and never fatal.
var ErrMissingCredential = errors.New("no API credential configured")

// ErrMalformedExtraction means the extraction response parsed as JSON but not
// as the expected profile shape. Treated like a remote failure: the merge is
// skipped and the document stays unchanged.
var ErrMalformedExtraction = errors.New("extraction response has unexpected shape")

// RemoteServiceError covers a non-2xx status, transport error, or malformed
// payload from one of the remote services.
type RemoteServiceError struct {
	Service string // "chat", "extraction", "speech"
	Status  int    // HTTP status if one was received, 0 otherwise
	Err     error
}

func (e *RemoteServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s service: http %d: %v", e.Service, e.Status, e.Err)
	}
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// PersistenceError covers a failed read or write of the memory document or
// persona catalog. Reads fall back to defaults; writes are logged and the
// process continues with possibly-unpersisted state.
type PersistenceError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
