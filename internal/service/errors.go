package service

import "errors"

// Error kinds. Handlers map these to status codes with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
	ErrSpriteNotFound     = errors.New("sprite not found")
	ErrUpstream           = errors.New("upstream failure")
)

// ValidationError carries a client-correctable message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// InternalError hides its cause behind a generic message. The cause is
// reachable through Unwrap for logging only.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string { return "an error occurred during " + e.Op }

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// UpstreamError reports a failed PokeAPI call with a client-safe message.
type UpstreamError struct {
	Msg string
	Err error
}

func (e *UpstreamError) Error() string { return e.Msg }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
