package service

import "errors"

// ErrAlreadyRun indicates a comparison batch was re-invoked after its result
// was captured. The source pairs are released after the first run to bound
// memory, so a second run cannot recompute.
var ErrAlreadyRun = errors.New("textdiff: comparison has already been run")

// ErrNotRun indicates the result was requested before the batch ran.
var ErrNotRun = errors.New("textdiff: comparison has not been run")
