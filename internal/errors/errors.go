// Package errors provides sentinel errors and custom error types for the
// stackpatch application. Use errors.Is() and errors.As() to check for
// specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotFound indicates that a revision, diff or local node does not exist
	ErrNotFound = errors.New("not found")

	// ErrNonLinear indicates a branching dependency graph that cannot be
	// linearized into a stack
	ErrNonLinear = errors.New("non-linear dependency relationships")

	// ErrPreconditionFailed indicates that a pre-flight check rejected the run
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrPatchFailed indicates that a diff could not be applied to the tree
	ErrPatchFailed = errors.New("patch failed to apply")
)

// RevisionNotFoundError represents an error when the review service has no
// revision for the requested id
type RevisionNotFoundError struct {
	RevisionID int
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision D%d not found", e.RevisionID)
}

// Is returns true if the target error is ErrNotFound
func (e *RevisionNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewRevisionNotFoundError creates a new RevisionNotFoundError
func NewRevisionNotFoundError(revisionID int) *RevisionNotFoundError {
	return &RevisionNotFoundError{RevisionID: revisionID}
}

// NodeNotFoundError represents an error when an identifier does not resolve
// to a commit in the local repository
type NodeNotFoundError struct {
	Node string
	Hint string
}

func (e *NodeNotFoundError) Error() string {
	msg := fmt.Sprintf("unknown revision: %s", e.Node)
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

// Is returns true if the target error is ErrNotFound
func (e *NodeNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NonLinearError represents a revision whose dependency graph branches in
// the walked direction, making the stack order ambiguous
type NonLinearError struct {
	Direction string // "parent" or "child"
}

func (e *NonLinearError) Error() string {
	return fmt.Sprintf("non-linear %s dependency relationships", e.Direction)
}

// Is returns true if the target error is ErrNonLinear
func (e *NonLinearError) Is(target error) bool {
	return target == ErrNonLinear
}

// PreconditionError represents a failed pre-flight check. Remedy carries the
// action the user can take, and is appended to the message.
type PreconditionError struct {
	Reason string
	Remedy string
}

func (e *PreconditionError) Error() string {
	if e.Remedy != "" {
		return fmt.Sprintf("%s. %s", e.Reason, e.Remedy)
	}
	return e.Reason
}

// Is returns true if the target error is ErrPreconditionFailed
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// PatchFailureError represents a diff that the underlying apply step
// rejected. Patch conflicts need human resolution, so this is never retried.
type PatchFailureError struct {
	RevisionID int
	Err        error
}

func (e *PatchFailureError) Error() string {
	return fmt.Sprintf("patch for D%d failed to apply", e.RevisionID)
}

// Is returns true if the target error is ErrPatchFailed
func (e *PatchFailureError) Is(target error) bool {
	return target == ErrPatchFailed
}

func (e *PatchFailureError) Unwrap() error {
	return e.Err
}

// ConduitError represents an error response from the review service API
type ConduitError struct {
	Method string
	Code   string
	Info   string
}

func (e *ConduitError) Error() string {
	return fmt.Sprintf("conduit method %s failed: %s: %s", e.Method, e.Code, e.Info)
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
