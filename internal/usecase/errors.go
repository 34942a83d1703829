package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrVersionConflict  = errors.New("version conflict")
	ErrSlotConflict     = errors.New("slot conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInternal         = errors.New("internal invariant violated")
)
