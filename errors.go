package svd

import "fmt"

// ShapeError reports a programmer error: a split on an odd extent, a
// resize that would grow a dimension, or a rank exceeding min(m,n).
// Shape errors are never recoverable and never wrapped in a retry.
type ShapeError struct {
	Caller string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape error: %s", e.Caller, e.Reason)
}

func newShapeError(caller, reason string) error {
	return &ShapeError{Caller: caller, Reason: reason}
}

// UnrecoverableSVDError is raised when every retry of the in-house
// kernel has been exhausted, or an external provider reported a
// nonzero info/status code. No partial U, S, V is exposed alongside
// it.
type UnrecoverableSVDError struct {
	Caller string
	Reason string
}

func (e *UnrecoverableSVDError) Error() string {
	return fmt.Sprintf("%s: SVD failed: %s", e.Caller, e.Reason)
}

func newUnrecoverableSVDError(caller, reason string) error {
	return &UnrecoverableSVDError{Caller: caller, Reason: reason}
}

// ReconstructionMismatchError indicates a back-end produced a U, S, V
// triple that does not reconstruct A within THRESHOLD. This always
// signals a bug in a back-end, never a caller error.
type ReconstructionMismatchError struct {
	Row, Col   int
	Got, Want  float64
}

func (e *ReconstructionMismatchError) Error() string {
	return fmt.Sprintf(
		"reconstruction mismatch at (%d,%d): |A|=%g vs |U*diag(S)*V*|=%g",
		e.Row, e.Col, e.Want, e.Got,
	)
}

// convergenceFailure is the internal, recoverable-at-C4 signal that
// kernelSVD hit a degenerate Givens normalization even the
// extended-precision rescue could not resolve. It never escapes the
// svd package; kernelSVDWithRetry catches it and either retries or
// turns it into an UnrecoverableSVDError.
type convergenceFailure struct {
	caller string
}

func (e *convergenceFailure) Error() string {
	return fmt.Sprintf("%s: kernel did not converge", e.caller)
}
