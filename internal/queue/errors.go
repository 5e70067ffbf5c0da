package queue

import "errors"

var (
	// ErrNotFound is returned for an id the queue has never issued
	ErrNotFound = errors.New("patient not found")

	// ErrInvalidPatient is returned for requests the queue cannot accept
	ErrInvalidPatient = errors.New("invalid patient")

	// ErrDuplicateID is returned by stores when an id is inserted twice
	ErrDuplicateID = errors.New("duplicate patient id")
)
