package patch

import (
	"context"
	"fmt"
	"strings"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/resolver"
	"stackpatch.dev/stackpatch/internal/runtime"
)

// Options mirror the patch command's flags.
type Options struct {
	RevisionID       int
	ApplyTo          string
	Raw              bool
	NoCommit         bool
	NoBranch         bool
	NoParents        bool
	NoChildren       bool
	NoDependencies   bool
	IncludeAbandoned bool
	Yes              bool
	ForceVCS         bool
}

func (o Options) mode() Mode {
	switch {
	case o.Raw:
		return ModeRaw
	case o.NoCommit:
		return ModeNoCommit
	default:
		return ModeCommit
	}
}

// Run materializes a revision stack in the local working tree: guard checks,
// stack resolution, base selection, tree setup, then sequenced application.
func Run(ctx context.Context, rt *runtime.Context, opts Options) error {
	if err := rt.Client.Check(ctx); err != nil {
		return fmt.Errorf("failed to reach the review service: %w", err)
	}

	mode := opts.mode()
	guard := &Guard{Repo: rt.Repo}

	if mode != ModeRaw {
		if err := guard.Check(ctx, opts.ForceVCS); err != nil {
			return err
		}
	}

	// --no-dependencies is an alias for --no-parents + --no-children
	if opts.NoDependencies {
		opts.NoParents = true
		opts.NoChildren = true
	}

	res := &resolver.Resolver{Client: rt.Client, Config: rt.Config, Splog: rt.Splog}
	stack, err := res.Resolve(ctx, opts.RevisionID, resolver.Options{
		IncludeParents:   !opts.NoParents,
		IncludeChildren:  !opts.NoChildren,
		IncludeAbandoned: opts.IncludeAbandoned,
		Yes:              opts.Yes,
		Confirm:          rt.Confirm,
	})
	if err != nil {
		return err
	}

	if mode == ModeCommit {
		for _, rev := range stack.Revisions {
			if _, ok := stack.DiffFor(rev).Author(); !ok {
				return &stackpatcherrors.PreconditionError{
					Reason: "a diff without commit information detected in revision " + rev.Name(),
					Remedy: "Use `--no-commit` to patch the working tree",
				}
			}
		}
	}

	if mode != ModeRaw {
		names := make([]string, 0, len(stack.Revisions))
		for _, rev := range stack.Revisions {
			names = append(names, rev.Name())
		}
		plural := ""
		if len(names) > 1 {
			plural = "s"
		}
		rt.Splog.Info("Patching revision%s: %s", plural, strings.Join(names, " "))

		applyTo := opts.ApplyTo
		if applyTo == "" {
			applyTo = rt.Config.ApplyTo()
		}
		if err := guard.Prepare(ctx, applyTo, stack, opts.NoCommit, opts.NoBranch); err != nil {
			return err
		}
	}

	engine := &Engine{Client: rt.Client, Repo: rt.Repo, Splog: rt.Splog}
	return engine.Apply(ctx, stack, mode)
}
