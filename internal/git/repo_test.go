package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
)

const newFilePatch = `diff --git a/hello.txt b/hello.txt
new file mode 100644
--- /dev/null
+++ b/hello.txt
@@ -0,0 +1 @@
+hello
`

// newTestRepo initializes a git repository with one commit and opens it
func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	runner := NewCommandRunner(dir)
	ctx := context.Background()

	_, err = runner.Run(ctx, "init")
	require.NoError(t, err)
	_, err = runner.Run(ctx, "config", "user.name", "Test User")
	require.NoError(t, err)
	_, err = runner.Run(ctx, "config", "user.email", "test@example.com")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme\n"), 0600))
	_, err = runner.Run(ctx, "add", ".")
	require.NoError(t, err)
	_, err = runner.Run(ctx, "commit", "-m", "initial commit")
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)
	return repo
}

func TestOpen(t *testing.T) {
	t.Run("opens an existing repository", func(t *testing.T) {
		repo := newTestRepo(t)
		require.NotEmpty(t, repo.Root())
	})

	t.Run("fails outside a repository", func(t *testing.T) {
		_, err := Open(t.TempDir())
		require.Error(t, err)
	})
}

func TestIsWorktreeClean(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	clean, err := repo.IsWorktreeClean(ctx)
	require.NoError(t, err)
	require.True(t, clean)

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "README.md"), []byte("changed\n"), 0600))

	clean, err = repo.IsWorktreeClean(ctx)
	require.NoError(t, err)
	require.False(t, clean)
}

func TestCheckVCSCompatibility(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CheckVCSCompatibility(context.Background()))
}

func TestResolveNode(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("resolves HEAD to a commit hash", func(t *testing.T) {
		node, err := repo.ResolveNode(ctx, "HEAD")
		require.NoError(t, err)
		require.Len(t, node, 40)
	})

	t.Run("unknown identifier is not found", func(t *testing.T) {
		_, err := repo.ResolveNode(ctx, "0000000000000000000000000000000000000000")
		require.ErrorIs(t, err, stackpatcherrors.ErrNotFound)
	})
}

func TestPrepareBranch(t *testing.T) {
	t.Run("creates and checks out the branch", func(t *testing.T) {
		repo := newTestRepo(t)
		ctx := context.Background()

		base, err := repo.ResolveNode(ctx, "HEAD")
		require.NoError(t, err)

		require.NoError(t, repo.PrepareBranch(ctx, base, "phab-D123"))

		branch, err := repo.runner.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
		require.NoError(t, err)
		require.Equal(t, "phab-D123", branch)
	})

	t.Run("no branch and no base leaves the tree alone", func(t *testing.T) {
		repo := newTestRepo(t)
		ctx := context.Background()

		before, err := repo.runner.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
		require.NoError(t, err)

		require.NoError(t, repo.PrepareBranch(ctx, "", ""))

		after, err := repo.runner.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

func TestApplyPatchAsCommit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := repo.ApplyPatchAsCommit(ctx, newFilePatch, "Add hello\n\nDifferential Revision: https://phabricator.example.com/D1", "Jane Doe <jane@example.com>", timestamp)
	require.NoError(t, err)

	// The tree is clean again and the commit carries the right author
	clean, err := repo.IsWorktreeClean(ctx)
	require.NoError(t, err)
	require.True(t, clean)

	author, err := repo.runner.Run(ctx, "log", "-1", "--format=%an <%ae>")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe <jane@example.com>", author)

	subject, err := repo.runner.Run(ctx, "log", "-1", "--format=%s")
	require.NoError(t, err)
	require.Equal(t, "Add hello", subject)

	require.FileExists(t, filepath.Join(repo.Root(), "hello.txt"))
}

func TestApplyPatchAsCommitConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conflicting := `diff --git a/README.md b/README.md
--- a/README.md
+++ b/README.md
@@ -1 +1 @@
-something that is not there
+changed
`
	err := repo.ApplyPatchAsCommit(ctx, conflicting, "body", "Jane Doe <jane@example.com>", time.Now())
	require.Error(t, err)

	var cmdErr *stackpatcherrors.GitCommandError
	require.ErrorAs(t, err, &cmdErr)
}

func TestApplyPatchUncommitted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.ApplyPatchUncommitted(ctx, newFilePatch))

	// Applied to the working tree but not committed
	require.FileExists(t, filepath.Join(repo.Root(), "hello.txt"))

	clean, err := repo.IsWorktreeClean(ctx)
	require.NoError(t, err)
	require.False(t, clean)
}
