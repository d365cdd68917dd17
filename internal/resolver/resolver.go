// Package resolver builds the linear, ordered stack of dependent revisions
// to apply for a root revision.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"stackpatch.dev/stackpatch/internal/conduit"
	"stackpatch.dev/stackpatch/internal/config"
	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/tui"
)

// ConfirmFunc asks the user to pick one of options and returns the choice.
type ConfirmFunc func(question string, options []string) (string, error)

// Options control which parts of the dependency graph are resolved.
type Options struct {
	IncludeParents   bool
	IncludeChildren  bool
	IncludeAbandoned bool

	// Yes skips the children confirmation. It wins over the persisted
	// always-full-stack preference: when set, the preference is neither
	// consulted nor written.
	Yes bool

	// Confirm is invoked when children exist and no skip applies
	Confirm ConfirmFunc
}

// Stack is the ordered sequence of revisions to apply together, every
// revision's dependency appearing before it.
type Stack struct {
	Revisions []*conduit.Revision
	Diffs     map[string]*conduit.Diff

	// RootIndex is the position of the requested revision, equal to the
	// number of resolved parents
	RootIndex int
}

// Target returns the last revision in the stack, whose id names the run.
func (s *Stack) Target() *conduit.Revision {
	return s.Revisions[len(s.Revisions)-1]
}

// DiffFor returns the diff fetched for a revision in the stack.
func (s *Stack) DiffFor(rev *conduit.Revision) *conduit.Diff {
	return s.Diffs[rev.DiffPHID]
}

// Resolver walks the dependency graph of a revision and assembles the stack.
type Resolver struct {
	Client conduit.Client
	Config *config.UserConfig
	Splog  *tui.Splog
}

// Resolve fetches the root revision, its linear ancestor and descendant
// chains, and the diff metadata for every revision collected. Branching
// ancestry is fatal; branching descendants degrade to parents plus root
// with a warning.
func (r *Resolver) Resolve(ctx context.Context, rootID int, opts Options) (*Stack, error) {
	root, err := r.Client.GetRevisionByID(ctx, rootID)
	if err != nil {
		return nil, err
	}

	var parents []string
	if opts.IncludeParents {
		parents, err = r.Client.GetAncestorPHIDs(ctx, root.PHID)
		if err != nil {
			if errors.Is(err, stackpatcherrors.ErrNonLinear) {
				return nil, fmt.Errorf("revision D%d has non-linear dependency relationships, unable to patch the stack: %w", rootID, err)
			}
			return nil, err
		}
	}

	var children []string
	if opts.IncludeChildren {
		children, err = r.Client.GetSuccessorPHIDs(ctx, root.PHID, opts.IncludeAbandoned)
		if err != nil {
			if !errors.Is(err, stackpatcherrors.ErrNonLinear) {
				return nil, err
			}
			r.Splog.Warn("Revision D%d has non-linear dependency relationships. Unable to apply child revisions.", rootID)
			children = nil
		}
	}

	if len(children) > 0 && !opts.Yes && !r.Config.IsAlwaysFullStack() {
		children, err = r.confirmChildren(rootID, children, opts.Confirm)
		if err != nil {
			return nil, err
		}
	}

	revisions := []*conduit.Revision{root}
	if len(parents) > 0 {
		parentRevisions, err := r.Client.GetRevisionsByPHIDs(ctx, parents)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, parentRevisions...)
		reverse(revisions)
	}
	rootIndex := len(revisions) - 1

	if len(children) > 0 {
		childRevisions, err := r.Client.GetRevisionsByPHIDs(ctx, children)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, childRevisions...)
	}

	diffPHIDs := make([]string, 0, len(revisions))
	for _, rev := range revisions {
		diffPHIDs = append(diffPHIDs, rev.DiffPHID)
	}
	diffs, err := r.Client.GetDiffs(ctx, diffPHIDs)
	if err != nil {
		return nil, err
	}
	for _, rev := range revisions {
		if diffs[rev.DiffPHID] == nil {
			return nil, fmt.Errorf("diff for revision %s: %w", rev.Name(), stackpatcherrors.ErrNotFound)
		}
	}

	return &Stack{
		Revisions: revisions,
		Diffs:     diffs,
		RootIndex: rootIndex,
	}, nil
}

// confirmChildren runs the Yes/No/Always decision point. "Always" persists
// the full-stack preference for future runs.
func (r *Resolver) confirmChildren(rootID int, children []string, confirm ConfirmFunc) ([]string, error) {
	if confirm == nil {
		return children, nil
	}

	noun := "child commits"
	if len(children) == 1 {
		noun = "a child commit"
	}
	question := fmt.Sprintf("Revision D%d has %s. Would you like to patch all children?", rootID, noun)

	choice, err := confirm(question, []string{"Yes", "No", "Always"})
	if err != nil {
		return nil, err
	}

	switch choice {
	case "No":
		return nil, nil
	case "Always":
		r.Config.SetAlwaysFullStack(true)
		if err := r.Config.Save(); err != nil {
			r.Splog.Warn("Failed to save configuration: %v", err)
		}
	}
	return children, nil
}

func reverse(revisions []*conduit.Revision) {
	for i, j := 0, len(revisions)-1; i < j; i, j = i+1, j-1 {
		revisions[i], revisions[j] = revisions[j], revisions[i]
	}
}
