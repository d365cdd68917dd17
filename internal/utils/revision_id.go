// Package utils provides small helpers shared across stackpatch packages.
package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	// revisionIDRegex matches a bare or "D"-prefixed revision number
	revisionIDRegex = regexp.MustCompile(`^D?(\d+)$`)

	// revisionURLRegex matches a full revision URL such as
	// https://phabricator.example.com/D123
	revisionURLRegex = regexp.MustCompile(`^https?://[^/]+/D(\d+)`)
)

// ParseRevisionID normalizes a revision spelling to its numeric id.
// Accepted spellings: "123", "D123", or a full revision URL.
func ParseRevisionID(value string) (int, error) {
	if m := revisionIDRegex.FindStringSubmatch(value); m != nil {
		return strconv.Atoi(m[1])
	}

	if m := revisionURLRegex.FindStringSubmatch(value); m != nil {
		return strconv.Atoi(m[1])
	}

	return 0, fmt.Errorf("invalid revision id (expected number or URL): %s", value)
}

// ShortNode truncates a commit hash to the length used in messages.
// Identifiers that are already short are returned unchanged.
func ShortNode(node string) string {
	if len(node) > 12 {
		return node[:12]
	}
	return node
}
