package patch

import (
	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/resolver"
)

// Apply targets with special meaning. Any other value is taken verbatim as
// a node identifier.
const (
	// ApplyToHere applies the stack at the current position
	ApplyToHere = "here"

	// ApplyToBase applies the stack onto the base commit recorded in the
	// first diff
	ApplyToBase = "base"
)

// SelectBase picks the node identifier the stack should be applied onto.
// It returns "" when the stack applies at the current position without
// moving the tree. The identifier is not validated against the local
// repository here; the guard does that during setup.
func SelectBase(applyTo string, stack *resolver.Stack) (string, error) {
	switch applyTo {
	case ApplyToHere:
		return "", nil

	case ApplyToBase:
		first := stack.Revisions[0]
		if base := stack.DiffFor(first).BaseRef(); base != "" {
			return base, nil
		}
		return "", &stackpatcherrors.PreconditionError{
			Reason: "base commit not found in diff",
			Remedy: "Use `--apply-to here` to patch the current commit",
		}

	default:
		return applyTo, nil
	}
}
