// Package patch materializes a resolved revision stack in the local working
// tree: pre-flight checks, base point selection, and sequenced application
// of each revision's diff.
package patch

import (
	"context"
	"time"
)

// Repo is the local version control surface the patch pipeline needs.
// internal/git provides the real implementation.
type Repo interface {
	// IsWorktreeClean reports whether the tree has uncommitted changes
	IsWorktreeClean(ctx context.Context) (bool, error)

	// CheckVCSCompatibility verifies the local VCS can perform the run
	CheckVCSCompatibility(ctx context.Context) error

	// ResolveNode resolves an identifier to an existing local commit
	ResolveNode(ctx context.Context, identifier string) (string, error)

	// PrepareBranch positions the tree at baseNode, creating branchName
	// when it is non-empty
	PrepareBranch(ctx context.Context, baseNode, branchName string) error

	// ApplyPatchAsCommit applies rawDiff and commits it with the given
	// body, author and timestamp
	ApplyPatchAsCommit(ctx context.Context, rawDiff, body, author string, timestamp time.Time) error

	// ApplyPatchUncommitted applies rawDiff to the working tree only
	ApplyPatchUncommitted(ctx context.Context, rawDiff string) error

	// StashCommand names the backend's way of putting changes aside,
	// for remediation hints ("stash" for git, "shelve" for mercurial)
	StashCommand() string
}
