package patch

import (
	"context"

	"stackpatch.dev/stackpatch/internal/conduit"
	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/resolver"
	"stackpatch.dev/stackpatch/internal/tui"
)

// Mode selects how each revision in the stack is materialized locally.
type Mode int

const (
	// ModeCommit applies each diff and records it as a commit
	ModeCommit Mode = iota

	// ModeNoCommit applies each diff to the working tree only
	ModeNoCommit

	// ModeRaw prints each raw diff verbatim, mutating nothing
	ModeRaw
)

// Engine replays a resolved stack against the working tree, strictly in
// stack order. Each commit's base is the result of the previous apply, so
// there is no parallelism; a failure stops the run with the tree at the
// last successful revision.
type Engine struct {
	Client conduit.Client
	Repo   Repo
	Splog  *tui.Splog
}

// Apply runs the stack. The raw diff for each revision is fetched lazily,
// one network call per revision, interleaved with its application.
func (e *Engine) Apply(ctx context.Context, stack *resolver.Stack, mode Mode) error {
	target := stack.Target()

	dependsOn := 0
	for _, rev := range stack.Revisions {
		diff := stack.DiffFor(rev)
		body := ComposeBody(rev.Title, rev.Summary, rev.ID, e.Client.BaseURL(), dependsOn)
		dependsOn = rev.ID

		raw, err := e.Client.GetRawDiff(ctx, diff.ID)
		if err != nil {
			return err
		}

		switch mode {
		case ModeRaw:
			e.Splog.Page(raw)
			continue

		case ModeNoCommit:
			if err := e.Repo.ApplyPatchUncommitted(ctx, raw); err != nil {
				return &stackpatcherrors.PatchFailureError{RevisionID: rev.ID, Err: err}
			}

		case ModeCommit:
			author, ok := diff.Author()
			if !ok {
				// The action checks this up front; a miss here means a
				// caller skipped that check
				return &stackpatcherrors.PreconditionError{
					Reason: "a diff without commit information detected in revision " + rev.Name(),
					Remedy: "Use `--no-commit` to patch the working tree",
				}
			}
			if err := e.Repo.ApplyPatchAsCommit(ctx, raw, body, author, diff.DateCreated); err != nil {
				return &stackpatcherrors.PatchFailureError{RevisionID: rev.ID, Err: err}
			}
		}

		if rev.ID != target.ID {
			e.Splog.Info("%s applied", rev.Name())
		}
	}

	if mode != ModeRaw {
		e.Splog.Info("%s applied", target.Name())
	}
	return nil
}
