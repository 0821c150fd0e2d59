package hyperlsh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a requested result count is not positive.
	ErrInvalidCount = errors.New("count must be positive")

	// ErrIndexClosed is returned when an operation is attempted on a closed index.
	ErrIndexClosed = errors.New("index is closed")

	// ErrNoSamples is returned when autotuning is attempted without sample vectors.
	ErrNoSamples = errors.New("autotune requires at least one sample vector")

	// ErrNilDistanceFunc is returned when Nearest is called without a distance function.
	ErrNilDistanceFunc = errors.New("distance function must not be nil")
)

// ErrInvalidTableCount indicates an invalid ensemble size.
type ErrInvalidTableCount struct {
	TableCount int
}

func (e *ErrInvalidTableCount) Error() string {
	return fmt.Sprintf("invalid table count: %d (must be > 0)", e.TableCount)
}

// ErrInvalidTargetOccupancy indicates a non-positive autotune target.
type ErrInvalidTargetOccupancy struct {
	Target float64
}

func (e *ErrInvalidTargetOccupancy) Error() string {
	return fmt.Sprintf("invalid target occupancy: %v (must be > 0)", e.Target)
}
