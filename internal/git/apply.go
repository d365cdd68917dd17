package git

import (
	"context"
	"time"
)

// ApplyPatchAsCommit stages rawDiff and records it as a commit with the
// given message body, author string and timestamp. The caller is expected to
// treat a failure here as a patch conflict needing human resolution.
func (r *Repo) ApplyPatchAsCommit(ctx context.Context, rawDiff, body, author string, timestamp time.Time) error {
	if _, err := r.runner.RunWithInput(ctx, rawDiff, "apply", "--index", "-"); err != nil {
		return err
	}

	date := timestamp.Format(time.RFC3339)
	env := []string{"GIT_COMMITTER_DATE=" + date}
	_, err := r.runner.RunWithEnv(ctx, env,
		"commit", "-m", body, "--author", author, "--date", date)
	return err
}

// ApplyPatchUncommitted applies rawDiff to the working tree without staging
// or committing anything.
func (r *Repo) ApplyPatchUncommitted(ctx context.Context, rawDiff string) error {
	_, err := r.runner.RunWithInput(ctx, rawDiff, "apply", "-")
	return err
}
