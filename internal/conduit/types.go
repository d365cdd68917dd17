package conduit

import (
	"fmt"
	"time"
)

// StatusAbandoned is the revision status the service reports for abandoned
// revisions.
const StatusAbandoned = "abandoned"

// Revision is a single reviewable change tracked by the review service.
// Revisions are immutable once fetched within a run.
type Revision struct {
	ID       int
	PHID     string
	Title    string
	Summary  string
	Status   string
	DiffPHID string
}

// Name returns the user-facing name of the revision, e.g. "D123".
func (r *Revision) Name() string {
	return fmt.Sprintf("D%d", r.ID)
}

// IsAbandoned reports whether the revision has been abandoned.
func (r *Revision) IsAbandoned() bool {
	return r.Status == StatusAbandoned
}

// DiffRef is a typed reference attached to a diff, such as the "base"
// commit the diff was generated against.
type DiffRef struct {
	Type       string
	Identifier string
}

// DiffCommit records the author metadata of one commit attached to a diff.
type DiffCommit struct {
	AuthorName  string
	AuthorEmail string
}

// Diff is the patch metadata for the current version of a revision. The raw
// patch text is fetched separately, one call per revision.
type Diff struct {
	ID           int
	PHID         string
	RevisionPHID string
	Refs         []DiffRef
	Commits      []DiffCommit
	DateCreated  time.Time
}

// BaseRef returns the identifier of the "base" typed reference, or "" if
// the diff carries none.
func (d *Diff) BaseRef() string {
	for _, ref := range d.Refs {
		if ref.Type == "base" {
			return ref.Identifier
		}
	}
	return ""
}

// Author returns the "Name <email>" author string from the diff's first
// commit attachment. ok is false when the diff has no commit metadata.
func (d *Diff) Author() (author string, ok bool) {
	if len(d.Commits) == 0 {
		return "", false
	}
	c := d.Commits[0]
	return fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail), true
}
