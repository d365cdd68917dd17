package conduit

import (
	"context"
	"fmt"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
)

// revisionSearchResult is the wire shape of differential.revision.search
type revisionSearchResult struct {
	Data []struct {
		ID     int    `json:"id"`
		PHID   string `json:"phid"`
		Fields struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
			Status  struct {
				Value string `json:"value"`
			} `json:"status"`
			DiffPHID string `json:"diffPHID"`
		} `json:"fields"`
	} `json:"data"`
}

func (r *revisionSearchResult) revisions() []*Revision {
	revisions := make([]*Revision, 0, len(r.Data))
	for _, d := range r.Data {
		revisions = append(revisions, &Revision{
			ID:       d.ID,
			PHID:     d.PHID,
			Title:    d.Fields.Title,
			Summary:  d.Fields.Summary,
			Status:   d.Fields.Status.Value,
			DiffPHID: d.Fields.DiffPHID,
		})
	}
	return revisions
}

// GetRevisionByID fetches a single revision by its numeric id
func (c *HTTPClient) GetRevisionByID(ctx context.Context, id int) (*Revision, error) {
	var result revisionSearchResult
	params := map[string]interface{}{
		"constraints": map[string]interface{}{"ids": []int{id}},
	}
	if err := c.call(ctx, "differential.revision.search", params, &result); err != nil {
		return nil, err
	}

	revisions := result.revisions()
	if len(revisions) == 0 {
		return nil, stackpatcherrors.NewRevisionNotFoundError(id)
	}
	return revisions[0], nil
}

// GetRevisionsByPHIDs fetches revisions by handle, in input order
func (c *HTTPClient) GetRevisionsByPHIDs(ctx context.Context, phids []string) ([]*Revision, error) {
	if len(phids) == 0 {
		return nil, nil
	}

	var result revisionSearchResult
	params := map[string]interface{}{
		"constraints": map[string]interface{}{"phids": phids},
	}
	if err := c.call(ctx, "differential.revision.search", params, &result); err != nil {
		return nil, err
	}

	// The service does not guarantee result order; re-order to match input
	byPHID := make(map[string]*Revision, len(result.Data))
	for _, rev := range result.revisions() {
		byPHID[rev.PHID] = rev
	}

	revisions := make([]*Revision, 0, len(phids))
	for _, phid := range phids {
		rev, ok := byPHID[phid]
		if !ok {
			return nil, fmt.Errorf("revision %s: %w", phid, stackpatcherrors.ErrNotFound)
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}
