package services

import "errors"

var (
	// ErrInvalidArgument marks structurally wrong input, e.g. a missing name list.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedFormat is returned by Import and Export for unknown encodings.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrFetch wraps remote refresh failures. The registry keeps its previous set.
	ErrFetch = errors.New("reserved list fetch failed")
	// ErrInitialization is returned by New when the registry could not be built.
	ErrInitialization = errors.New("reserved registry initialization failed")
)
