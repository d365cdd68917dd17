package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
)

// minimumGitMajor and minimumGitMinor are the oldest git version whose
// apply/commit behavior stackpatch relies on.
const (
	minimumGitMajor = 2
	minimumGitMinor = 11
)

var gitVersionRegex = regexp.MustCompile(`git version (\d+)\.(\d+)`)

// Repo is a git working tree that stackpatch can patch. It wraps a go-git
// repository for object lookups and a command runner for mutations.
type Repo struct {
	root   string
	runner *CommandRunner
	repo   *gogit.Repository
}

// Open opens the git repository containing path
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	return &Repo{
		root:   root,
		runner: NewCommandRunner(root),
		repo:   repo,
	}, nil
}

// Root returns the worktree root directory
func (r *Repo) Root() string {
	return r.root
}

// StashCommand returns the backend-appropriate name for putting
// uncommitted changes aside, used in remediation hints.
func (r *Repo) StashCommand() string {
	return "stash"
}

// IsWorktreeClean reports whether the working tree has no uncommitted
// changes
func (r *Repo) IsWorktreeClean(ctx context.Context) (bool, error) {
	out, err := r.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// CheckVCSCompatibility verifies that the local git can perform the
// apply/commit operations the patch engine needs.
func (r *Repo) CheckVCSCompatibility(ctx context.Context) error {
	out, err := r.runner.Run(ctx, "version")
	if err != nil {
		return err
	}

	m := gitVersionRegex.FindStringSubmatch(out)
	if m == nil {
		return &stackpatcherrors.PreconditionError{
			Reason: fmt.Sprintf("unrecognized git version %q", out),
			Remedy: "Use --force-vcs to skip this check",
		}
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	if major < minimumGitMajor || (major == minimumGitMajor && minor < minimumGitMinor) {
		return &stackpatcherrors.PreconditionError{
			Reason: fmt.Sprintf("git %d.%d or newer is required, found %s.%s", minimumGitMajor, minimumGitMinor, m[1], m[2]),
			Remedy: "Upgrade git or use --force-vcs to skip this check",
		}
	}

	if _, err := r.runner.Run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return &stackpatcherrors.PreconditionError{
			Reason: "not inside a git work tree",
		}
	}
	return nil
}

// ResolveNode resolves an identifier (hash, ref, abbreviation) to a full
// commit hash in the local repository
func (r *Repo) ResolveNode(_ context.Context, identifier string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(identifier))
	if err != nil {
		return "", &stackpatcherrors.NodeNotFoundError{Node: identifier}
	}
	return hash.String(), nil
}

// PrepareBranch positions the working tree for patching. A non-empty
// branchName creates and checks out a fresh branch at baseNode (or the
// current head when baseNode is empty); with no branch name the tree is
// moved to baseNode in place.
func (r *Repo) PrepareBranch(ctx context.Context, baseNode, branchName string) error {
	if branchName != "" {
		args := []string{"checkout", "-b", branchName}
		if baseNode != "" {
			args = append(args, baseNode)
		}
		_, err := r.runner.Run(ctx, args...)
		return err
	}

	if baseNode != "" {
		_, err := r.runner.Run(ctx, "checkout", baseNode)
		return err
	}
	return nil
}
