package carve

import "errors"

var (
	// ErrInvalidGrid indicates an empty or ragged pixel or energy grid.
	ErrInvalidGrid = errors.New("carve: grid must have at least one row and all rows must have the same non-zero length")
	// ErrSeamMismatch indicates a seam whose length or coordinates do not fit the grid.
	ErrSeamMismatch = errors.New("carve: seam does not match the grid dimensions")
	// ErrRegionOutOfBounds indicates a mask region outside of the current grid.
	ErrRegionOutOfBounds = errors.New("carve: region exceeds the grid bounds")
	// ErrExhaustedDimension indicates that the requested number of seams
	// would reduce a grid dimension to zero or below.
	ErrExhaustedDimension = errors.New("carve: not enough pixels left to remove the requested seams")
)
