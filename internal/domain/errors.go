package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrNoSession      = errors.New("no session")
)

// AllowedReceiptExtensions is the receipt allow-list, lower case, without dot.
var AllowedReceiptExtensions = []string{"jpg", "jpeg", "png"}

// StoreError is returned by store adapters. Message is shown to the user;
// Err, when set, is the underlying cause.
type StoreError struct {
	Status  int
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Message }
func (e *StoreError) Unwrap() error { return e.Err }

// FetchError reports a failed bill listing.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError reports a failed bill creation.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return e.Err.Error() }
func (e *SubmitError) Unwrap() error { return e.Err }

// InvalidFileTypeError reports a receipt outside the allow-list.
type InvalidFileTypeError struct {
	FileName string
}

func (e *InvalidFileTypeError) Error() string {
	return fmt.Sprintf("fichier %q refusé : seuls les formats %s sont acceptés",
		e.FileName, strings.Join(AllowedReceiptExtensions, ", "))
}

// UnknownRouteError reports a navigation to a path id absent from the route table.
type UnknownRouteError struct {
	PathID string
}

func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("unknown route %q", e.PathID)
}
