package patch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
	"stackpatch.dev/stackpatch/internal/tui"
)

func newEngine(client *fakeDiffClient, repo *fakeRepo) (*Engine, *bytes.Buffer) {
	var out bytes.Buffer
	return &Engine{
		Client: client,
		Repo:   repo,
		Splog:  tui.NewSplogWithWriter(&out),
	}, &out
}

func TestEngineCommitMode(t *testing.T) {
	t.Run("applies the whole stack in order", func(t *testing.T) {
		stack, client := newStack(3)
		repo := newFakeRepo()
		engine, out := newEngine(client, repo)

		require.NoError(t, engine.Apply(context.Background(), stack, ModeCommit))
		require.Equal(t, []string{"raw-D1", "raw-D2", "raw-D3"}, repo.commits)
		require.Equal(t, []int{101, 102, 103}, client.calls)

		// Every commit carries the diff's author
		for _, author := range repo.commitAuthors {
			require.Equal(t, "Jane Doe <jane@example.com>", author)
		}

		// Bodies chain each revision to its predecessor
		require.NotContains(t, repo.commitBodies[0], "Depends on")
		require.Contains(t, repo.commitBodies[1], "Depends on D1")
		require.Contains(t, repo.commitBodies[2], "Depends on D2")
		require.Contains(t, repo.commitBodies[2], "Differential Revision: https://phabricator.example.com/D3")

		require.Contains(t, out.String(), "D1 applied")
		require.Contains(t, out.String(), "D3 applied")
	})

	t.Run("failure mid-stack leaves the prefix committed", func(t *testing.T) {
		stack, client := newStack(3)
		repo := newFakeRepo()
		repo.failApply["raw-D2"] = true
		engine, _ := newEngine(client, repo)

		err := engine.Apply(context.Background(), stack, ModeCommit)
		require.ErrorIs(t, err, stackpatcherrors.ErrPatchFailed)

		var patchErr *stackpatcherrors.PatchFailureError
		require.ErrorAs(t, err, &patchErr)
		require.Equal(t, 2, patchErr.RevisionID)

		// Exactly the first revision is committed; the third was never tried
		require.Equal(t, []string{"raw-D1"}, repo.commits)
		require.Equal(t, []int{101, 102}, client.calls)
	})

	t.Run("diff without commit metadata is fatal", func(t *testing.T) {
		stack, client := newStack(1)
		stack.Diffs[stack.Revisions[0].DiffPHID].Commits = nil
		repo := newFakeRepo()
		engine, _ := newEngine(client, repo)

		err := engine.Apply(context.Background(), stack, ModeCommit)
		require.ErrorIs(t, err, stackpatcherrors.ErrPreconditionFailed)
		require.Empty(t, repo.commits)
	})
}

func TestEngineRawMode(t *testing.T) {
	stack, client := newStack(3)
	repo := newFakeRepo()
	engine, out := newEngine(client, repo)

	require.NoError(t, engine.Apply(context.Background(), stack, ModeRaw))

	// Zero working tree mutations, all diffs emitted verbatim in order
	require.Zero(t, repo.mutations())
	require.Equal(t, "raw-D1raw-D2raw-D3", out.String())
	require.NotContains(t, out.String(), "applied")
}

func TestEngineNoCommitMode(t *testing.T) {
	t.Run("applies without committing", func(t *testing.T) {
		stack, client := newStack(2)
		repo := newFakeRepo()
		engine, out := newEngine(client, repo)

		require.NoError(t, engine.Apply(context.Background(), stack, ModeNoCommit))
		require.Equal(t, []string{"raw-D1", "raw-D2"}, repo.uncommitted)
		require.Empty(t, repo.commits)
		require.Contains(t, out.String(), "D2 applied")
	})

	t.Run("missing commit metadata does not matter", func(t *testing.T) {
		stack, client := newStack(1)
		stack.Diffs[stack.Revisions[0].DiffPHID].Commits = nil
		repo := newFakeRepo()
		engine, _ := newEngine(client, repo)

		require.NoError(t, engine.Apply(context.Background(), stack, ModeNoCommit))
		require.Len(t, repo.uncommitted, 1)
	})

	t.Run("failure stops the remaining stack", func(t *testing.T) {
		stack, client := newStack(3)
		repo := newFakeRepo()
		repo.failApply["raw-D2"] = true
		engine, _ := newEngine(client, repo)

		err := engine.Apply(context.Background(), stack, ModeNoCommit)
		require.ErrorIs(t, err, stackpatcherrors.ErrPatchFailed)
		require.Equal(t, []string{"raw-D1"}, repo.uncommitted)
	})
}

func TestEngineProgressMessages(t *testing.T) {
	stack, client := newStack(2)
	repo := newFakeRepo()
	engine, out := newEngine(client, repo)

	require.NoError(t, engine.Apply(context.Background(), stack, ModeCommit))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, []string{"D1 applied", "D2 applied"}, lines)
}
