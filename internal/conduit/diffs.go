package conduit

import (
	"context"
	"time"
)

// diffSearchResult is the wire shape of differential.diff.search with the
// commits attachment requested.
type diffSearchResult struct {
	Data []struct {
		ID     int    `json:"id"`
		PHID   string `json:"phid"`
		Fields struct {
			RevisionPHID string `json:"revisionPHID"`
			DateCreated  int64  `json:"dateCreated"`
			Refs         []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"refs"`
		} `json:"fields"`
		Attachments struct {
			Commits struct {
				Commits []struct {
					Author struct {
						Name  string `json:"name"`
						Email string `json:"email"`
					} `json:"author"`
				} `json:"commits"`
			} `json:"commits"`
		} `json:"attachments"`
	} `json:"data"`
}

// GetDiffs fetches diff metadata keyed by diff handle
func (c *HTTPClient) GetDiffs(ctx context.Context, diffPHIDs []string) (map[string]*Diff, error) {
	if len(diffPHIDs) == 0 {
		return map[string]*Diff{}, nil
	}

	var result diffSearchResult
	params := map[string]interface{}{
		"constraints": map[string]interface{}{"phids": diffPHIDs},
		"attachments": map[string]bool{"commits": true},
	}
	if err := c.call(ctx, "differential.diff.search", params, &result); err != nil {
		return nil, err
	}

	diffs := make(map[string]*Diff, len(result.Data))
	for _, d := range result.Data {
		diff := &Diff{
			ID:           d.ID,
			PHID:         d.PHID,
			RevisionPHID: d.Fields.RevisionPHID,
			DateCreated:  time.Unix(d.Fields.DateCreated, 0),
		}
		for _, ref := range d.Fields.Refs {
			diff.Refs = append(diff.Refs, DiffRef{Type: ref.Type, Identifier: ref.Identifier})
		}
		for _, commit := range d.Attachments.Commits.Commits {
			diff.Commits = append(diff.Commits, DiffCommit{
				AuthorName:  commit.Author.Name,
				AuthorEmail: commit.Author.Email,
			})
		}
		diffs[d.PHID] = diff
	}
	return diffs, nil
}

// GetRawDiff fetches the raw patch text of a diff
func (c *HTTPClient) GetRawDiff(ctx context.Context, diffID int) (string, error) {
	var raw string
	params := map[string]interface{}{"diffID": diffID}
	if err := c.call(ctx, "differential.getrawdiff", params, &raw); err != nil {
		return "", err
	}
	return raw, nil
}
