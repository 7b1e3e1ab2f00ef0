package service

import "fmt"

// ValidationError reports client input that failed a required-field check.
// Message is safe to return to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DispatchError reports a mail collaborator failure. Step names the send
// that failed; Err is for server-side logs only.
type DispatchError struct {
	Step string
	Err  error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Step, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
