package scene

import (
	"errors"
	"fmt"
)

// FailureCategory classifies why a scene request fell back to local output.
type FailureCategory string

const (
	// TransportFailure covers request construction, network errors,
	// timeouts, non-2xx statuses and unreadable bodies.
	TransportFailure FailureCategory = "TransportFailure"
	// MalformedEnvelope means the body was not a chat-completion envelope
	// with usable message content.
	MalformedEnvelope FailureCategory = "MalformedEnvelope"
	// InvalidSceneJSON means the message content was not a JSON object with
	// non-empty scene_text and image_prompt.
	InvalidSceneJSON FailureCategory = "InvalidSceneJSON"
)

// Error is a scene generation failure tagged with its category.
type Error struct {
	Category FailureCategory
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func failf(cat FailureCategory, format string, args ...any) *Error {
	return &Error{Category: cat, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of err. Untagged errors count as
// transport failures.
func CategoryOf(err error) FailureCategory {
	var se *Error
	if errors.As(err, &se) {
		return se.Category
	}
	return TransportFailure
}
