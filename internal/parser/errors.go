package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginRequired means the portal answered with its login page, which it
	// does for any request made without a valid session.
	ErrLoginRequired = errors.New("login required")

	// ErrUnexpectedContent means the page was not the expected kind or did not
	// have the expected layout.
	ErrUnexpectedContent = errors.New("unexpected content")
)

// ContentError describes a page that could not be used. It matches
// ErrLoginRequired or ErrUnexpectedContent with errors.Is.
type ContentError struct {
	Kind   Kind   // detected page kind
	Detail string // what did not match
	err    error
}

func (e *ContentError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (page kind: %s)", e.err, e.Kind)
	}
	return fmt.Sprintf("%v (page kind: %s): %s", e.err, e.Kind, e.Detail)
}

func (e *ContentError) Unwrap() error {
	return e.err
}

func loginRequired() error {
	return &ContentError{Kind: KindLogin, err: ErrLoginRequired}
}

func unexpected(kind Kind, format string, args ...interface{}) error {
	return &ContentError{Kind: kind, Detail: fmt.Sprintf(format, args...), err: ErrUnexpectedContent}
}
