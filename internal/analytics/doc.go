// Package analytics computes read-only analytics snapshots from a form's
// questions and its submitted responses.
//
// Everything in this package is a pure function of its inputs: there is no
// I/O and no shared mutable state, so snapshots may be computed concurrently
// from any number of goroutines. Per-answer data that does not fit the
// question type is excluded from the tallies rather than reported as an error;
// only structurally broken input (a nil form, a nil response, duplicate
// question ids) fails with ErrInvalidArgument.
package analytics
