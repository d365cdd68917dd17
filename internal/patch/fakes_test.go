package patch

import (
	"context"
	"fmt"
	"time"

	"stackpatch.dev/stackpatch/internal/conduit"
	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/resolver"
)

// fakeRepo records every mutation the pipeline performs.
type fakeRepo struct {
	clean  bool
	vcsErr error
	nodes  map[string]string // identifier -> resolved hash

	// failApply marks raw diffs whose application must fail
	failApply map[string]bool

	preparedBase   string
	preparedBranch string
	prepareCalls   int
	commits        []string // raw diffs committed, in order
	uncommitted    []string // raw diffs applied without commit, in order
	commitBodies   []string
	commitAuthors  []string
}

var _ Repo = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clean:     true,
		nodes:     map[string]string{},
		failApply: map[string]bool{},
	}
}

func (f *fakeRepo) mutations() int {
	return f.prepareCalls + len(f.commits) + len(f.uncommitted)
}

func (f *fakeRepo) IsWorktreeClean(_ context.Context) (bool, error) {
	return f.clean, nil
}

func (f *fakeRepo) CheckVCSCompatibility(_ context.Context) error {
	return f.vcsErr
}

func (f *fakeRepo) ResolveNode(_ context.Context, identifier string) (string, error) {
	if hash, ok := f.nodes[identifier]; ok {
		return hash, nil
	}
	return "", &stackpatcherrors.NodeNotFoundError{Node: identifier}
}

func (f *fakeRepo) PrepareBranch(_ context.Context, baseNode, branchName string) error {
	f.preparedBase = baseNode
	f.preparedBranch = branchName
	f.prepareCalls++
	return nil
}

func (f *fakeRepo) ApplyPatchAsCommit(_ context.Context, rawDiff, body, author string, _ time.Time) error {
	if f.failApply[rawDiff] {
		return fmt.Errorf("patch does not apply")
	}
	f.commits = append(f.commits, rawDiff)
	f.commitBodies = append(f.commitBodies, body)
	f.commitAuthors = append(f.commitAuthors, author)
	return nil
}

func (f *fakeRepo) ApplyPatchUncommitted(_ context.Context, rawDiff string) error {
	if f.failApply[rawDiff] {
		return fmt.Errorf("patch does not apply")
	}
	f.uncommitted = append(f.uncommitted, rawDiff)
	return nil
}

func (f *fakeRepo) StashCommand() string {
	return "stash"
}

// fakeDiffClient serves raw diffs by diff id.
type fakeDiffClient struct {
	rawDiffs map[int]string
	calls    []int
}

var _ conduit.Client = (*fakeDiffClient)(nil)

func (f *fakeDiffClient) BaseURL() string { return "https://phabricator.example.com" }

func (f *fakeDiffClient) Check(_ context.Context) error { return nil }

func (f *fakeDiffClient) GetRevisionByID(_ context.Context, id int) (*conduit.Revision, error) {
	return nil, stackpatcherrors.NewRevisionNotFoundError(id)
}

func (f *fakeDiffClient) GetRevisionsByPHIDs(_ context.Context, _ []string) ([]*conduit.Revision, error) {
	return nil, nil
}

func (f *fakeDiffClient) GetAncestorPHIDs(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (f *fakeDiffClient) GetSuccessorPHIDs(_ context.Context, _ string, _ bool) ([]string, error) {
	return nil, nil
}

func (f *fakeDiffClient) GetDiffs(_ context.Context, _ []string) (map[string]*conduit.Diff, error) {
	return nil, nil
}

func (f *fakeDiffClient) GetRawDiff(_ context.Context, diffID int) (string, error) {
	f.calls = append(f.calls, diffID)
	raw, ok := f.rawDiffs[diffID]
	if !ok {
		return "", fmt.Errorf("diff %d: %w", diffID, stackpatcherrors.ErrNotFound)
	}
	return raw, nil
}

// newStack builds a stack of n revisions with ids 1..n, each with a diff
// carrying commit metadata and a raw diff "raw-D<i>".
func newStack(n int) (*resolver.Stack, *fakeDiffClient) {
	client := &fakeDiffClient{rawDiffs: map[int]string{}}
	stack := &resolver.Stack{Diffs: map[string]*conduit.Diff{}}

	for i := 1; i <= n; i++ {
		diffPHID := fmt.Sprintf("PHID-DIFF-%d", i)
		stack.Revisions = append(stack.Revisions, &conduit.Revision{
			ID:       i,
			PHID:     fmt.Sprintf("PHID-DREV-%d", i),
			Title:    fmt.Sprintf("change %d", i),
			Summary:  fmt.Sprintf("summary %d", i),
			DiffPHID: diffPHID,
		})
		stack.Diffs[diffPHID] = &conduit.Diff{
			ID:          100 + i,
			PHID:        diffPHID,
			DateCreated: time.Date(2024, 5, i, 0, 0, 0, 0, time.UTC),
			Commits:     []conduit.DiffCommit{{AuthorName: "Jane Doe", AuthorEmail: "jane@example.com"}},
			Refs:        []conduit.DiffRef{{Type: "base", Identifier: "basehash"}},
		}
		client.rawDiffs[100+i] = fmt.Sprintf("raw-D%d", i)
	}
	return stack, client
}
