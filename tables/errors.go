package tables

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientGeometry is returned when a zone yields fewer than two
	// boundaries on an axis and cannot form a grid. It is zone-local: the
	// zone is left out of the output and reconstruction continues.
	ErrInsufficientGeometry = errors.New("tables: insufficient geometry")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = errors.New("tables: invalid configuration")

	// ErrUnknownStrategy is returned when a merge strategy name is not registered.
	ErrUnknownStrategy = errors.New("tables: unknown merge strategy")
)

// GeometryError describes a zone that could not be turned into a grid.
type GeometryError struct {
	Zone          int
	RowBoundaries int
	ColBoundaries int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("zone %d: %d row and %d column boundaries: %v",
		e.Zone, e.RowBoundaries, e.ColBoundaries, ErrInsufficientGeometry)
}

func (e *GeometryError) Unwrap() error {
	return ErrInsufficientGeometry
}
