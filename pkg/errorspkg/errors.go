// Package errorspkg provides errors shared by every layer of the app.
package errorspkg

import (
	"context"
	"errors"
)

var (
	// ErrInternal replaces unexpected errors in client responses.
	ErrInternal = errors.New("internal")
	// ErrRequestCanceled is returned to clients whose request context ended first.
	ErrRequestCanceled = errors.New("request canceled")
)

// IsCanceled reports whether err comes from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
