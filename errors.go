// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package georgej

import "errors"

// ErrInterrupted signals that a running capture has been interrupted by the
// user. It is the only outcome of a capture that isn't an actual failure.
var ErrInterrupted = errors.New("interrupted")

// FilterEmptyError reports that a filter expression didn't match any pod,
// container, or network interface.
type FilterEmptyError struct {
	// What has been filtered: "pods", "containers", or "interfaces".
	What string
}

func (e *FilterEmptyError) Error() string {
	return "no " + e.What + " matched your regex"
}

// ExitCode returns the process exit code to use for this error.
func (e *FilterEmptyError) ExitCode() int { return 1 }

// UnreachableHostError reports that the remote-access transport cannot reach
// the node hosting the selected pod.
type UnreachableHostError struct {
	Node string
}

func (e *UnreachableHostError) Error() string {
	return "node can't be reached exiting"
}

// ExitCode returns the process exit code to use for this error.
func (e *UnreachableHostError) ExitCode() int { return 2 }
