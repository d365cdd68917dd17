package conduit

import (
	"context"

	stackpatcherrors "stackpatch.dev/stackpatch/internal/errors"
)

// Edge types understood by edge.search for revision dependencies.
const (
	edgeParent = "revision.parent"
	edgeChild  = "revision.child"
)

// edgeSearchResult is the wire shape of edge.search
type edgeSearchResult struct {
	Data []struct {
		SourcePHID      string `json:"sourcePHID"`
		DestinationPHID string `json:"destinationPHID"`
	} `json:"data"`
}

// edgePHIDs returns the destination handles of the given edge type from one
// revision.
func (c *HTTPClient) edgePHIDs(ctx context.Context, phid, edgeType string) ([]string, error) {
	var result edgeSearchResult
	params := map[string]interface{}{
		"sourcePHIDs": []string{phid},
		"types":       []string{edgeType},
	}
	if err := c.call(ctx, "edge.search", params, &result); err != nil {
		return nil, err
	}

	phids := make([]string, 0, len(result.Data))
	for _, edge := range result.Data {
		phids = append(phids, edge.DestinationPHID)
	}
	return phids, nil
}

// GetAncestorPHIDs walks parent edges from a revision, nearest first.
// A revision with more than one direct parent makes the chain ambiguous and
// yields a NonLinearError; the caller decides whether that is fatal.
func (c *HTTPClient) GetAncestorPHIDs(ctx context.Context, phid string) ([]string, error) {
	var ancestors []string
	seen := map[string]bool{phid: true}

	current := phid
	for {
		parents, err := c.edgePHIDs(ctx, current, edgeParent)
		if err != nil {
			return nil, err
		}
		if len(parents) == 0 {
			return ancestors, nil
		}
		if len(parents) > 1 {
			return nil, &stackpatcherrors.NonLinearError{Direction: "parent"}
		}

		parent := parents[0]
		if seen[parent] {
			// A dependency cycle is as unorderable as a branch
			return nil, &stackpatcherrors.NonLinearError{Direction: "parent"}
		}
		seen[parent] = true
		ancestors = append(ancestors, parent)
		current = parent
	}
}

// GetSuccessorPHIDs walks child edges from a revision, nearest first.
// Abandoned children are dropped before the branching check unless
// includeAbandoned is set, so a chain that is only wide because of
// abandoned revisions still linearizes.
func (c *HTTPClient) GetSuccessorPHIDs(ctx context.Context, phid string, includeAbandoned bool) ([]string, error) {
	var successors []string
	seen := map[string]bool{phid: true}

	current := phid
	for {
		children, err := c.edgePHIDs(ctx, current, edgeChild)
		if err != nil {
			return nil, err
		}

		if !includeAbandoned && len(children) > 0 {
			children, err = c.dropAbandoned(ctx, children)
			if err != nil {
				return nil, err
			}
		}

		if len(children) == 0 {
			return successors, nil
		}
		if len(children) > 1 {
			return nil, &stackpatcherrors.NonLinearError{Direction: "child"}
		}

		child := children[0]
		if seen[child] {
			return nil, &stackpatcherrors.NonLinearError{Direction: "child"}
		}
		seen[child] = true
		successors = append(successors, child)
		current = child
	}
}

func (c *HTTPClient) dropAbandoned(ctx context.Context, phids []string) ([]string, error) {
	revisions, err := c.GetRevisionsByPHIDs(ctx, phids)
	if err != nil {
		return nil, err
	}

	var active []string
	for _, rev := range revisions {
		if !rev.IsAbandoned() {
			active = append(active, rev.PHID)
		}
	}
	return active, nil
}
