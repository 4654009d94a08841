// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"fmt"

	"github.com/db47h/bnnbench/vectors"
)

// A SetupError reports an unmet precondition of the verification sequence.
//
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string { return "setup: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying error.
//
func (e *SetupError) Unwrap() error { return e.Err }

// An IndeterminateError reports a decision bit that is not a valid logic
// level when sampled.
//
type IndeterminateError struct {
	Index  int
	Input  uint8
	Output string // uo_out, msb first
}

func (e *IndeterminateError) Error() string {
	return fmt.Sprintf("vector %d: indeterminate output %s on data %s", e.Index, e.Output, vectors.Bin(e.Input))
}

// A MismatchError reports a decision that differs from the expected one.
//
type MismatchError struct {
	Index    int
	Input    uint8
	Observed uint8
	Expected uint8
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("vector %d: hardware failed on data %s (%d): output %d, expected %d",
		e.Index, vectors.Bin(e.Input), e.Input, e.Observed, e.Expected)
}
