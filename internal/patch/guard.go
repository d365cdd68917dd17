package patch

import (
	"context"
	"fmt"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/resolver"
	"stackpatch.dev/stackpatch/internal/utils"
)

// BranchNamePrefix is prepended to the terminal revision id when naming the
// branch created for a run.
const BranchNamePrefix = "phab-D"

// Guard runs the pre-flight checks and working tree setup that precede any
// mutation. Raw mode never invokes it.
type Guard struct {
	Repo Repo
}

// Check verifies the VCS is compatible and the working tree is clean.
// forceVCS skips the compatibility check only; a dirty tree is always
// fatal.
func (g *Guard) Check(ctx context.Context, forceVCS bool) error {
	if !forceVCS {
		if err := g.Repo.CheckVCSCompatibility(ctx); err != nil {
			return err
		}
	}

	clean, err := g.Repo.IsWorktreeClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return &stackpatcherrors.PreconditionError{
			Reason: "uncommitted changes present",
			Remedy: fmt.Sprintf("Please %s them or commit before patching", g.Repo.StashCommand()),
		}
	}
	return nil
}

// Prepare resolves the base node for the stack and stages the working tree:
// in commit mode a fresh branch named after the terminal revision is
// created; in no-commit mode the tree is only moved to the base.
func (g *Guard) Prepare(ctx context.Context, applyTo string, stack *resolver.Stack, noCommit, noBranch bool) error {
	base, err := SelectBase(applyTo, stack)
	if err != nil {
		return err
	}

	if base != "" {
		resolved, err := g.Repo.ResolveNode(ctx, base)
		if err != nil {
			nodeErr := &stackpatcherrors.NodeNotFoundError{Node: utils.ShortNode(base)}
			if applyTo == ApplyToBase {
				nodeErr.Hint = "Use --apply-to to set the base commit"
			}
			return nodeErr
		}
		base = resolved
	}

	branchName := ""
	if !noCommit && !noBranch {
		branchName = fmt.Sprintf("%s%d", BranchNamePrefix, stack.Target().ID)
	}
	return g.Repo.PrepareBranch(ctx, base, branchName)
}
