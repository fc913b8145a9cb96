// Package tracking is the client for the external experiment-tracking
// service: run lifecycle plus artifact download and registration.
package tracking

import "fmt"

// NotFoundError reports an artifact reference the tracking service could
// not resolve.
type NotFoundError struct {
	Artifact string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.Artifact)
}

// AuthError reports rejected credentials (HTTP 401 or 403).
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("tracking service rejected credentials (HTTP %d)", e.Status)
}

// ServiceError reports an unreachable tracking service or an unexpected
// response status.
type ServiceError struct {
	Op     string
	Status int
	Cause  error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tracking service error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("tracking service error during %s: HTTP %d", e.Op, e.Status)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// ManifestError reports an artifact manifest that could not be decoded or
// failed schema validation.
type ManifestError struct {
	Artifact string
	Message  string
	Cause    error
}

func (e *ManifestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid manifest for %s: %s: %v", e.Artifact, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid manifest for %s: %s", e.Artifact, e.Message)
}

func (e *ManifestError) Unwrap() error {
	return e.Cause
}

// LocalFileError reports a local staging file that is missing or
// unreadable. It is raised before any network call is attempted.
type LocalFileError struct {
	Path  string
	Cause error
}

func (e *LocalFileError) Error() string {
	return fmt.Sprintf("local file error for %s: %v", e.Path, e.Cause)
}

func (e *LocalFileError) Unwrap() error {
	return e.Cause
}
