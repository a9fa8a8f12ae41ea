package sheet

import "errors"

// ErrInvalidArgument is returned when an insertion is requested with a
// target row or count below 1. The worksheet is left untouched.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInconsistentMetadata indicates that formula attributes and cells
// disagree about which coordinates exist. It is a logic error, never a
// recoverable condition.
var ErrInconsistentMetadata = errors.New("inconsistent metadata")

// ErrMalformedRegion indicates a merge region whose range string cannot be parsed.
var ErrMalformedRegion = errors.New("malformed merge region")

// ErrOverlappingMerge indicates two merge regions share at least one cell.
var ErrOverlappingMerge = errors.New("overlapping merge regions")
