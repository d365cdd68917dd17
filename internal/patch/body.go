package patch

import (
	"fmt"
	"strings"
)

// ComposeBody builds the commit message recorded for one revision in the
// stack: title, summary, the dependency link to the previous revision, and
// the revision URL. dependsOn is 0 for the first revision.
func ComposeBody(title, summary string, revisionID int, serviceURL string, dependsOn int) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(title))

	if summary := strings.TrimSpace(summary); summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}

	if dependsOn != 0 {
		fmt.Fprintf(&b, "\n\nDepends on D%d", dependsOn)
	}

	fmt.Fprintf(&b, "\n\nDifferential Revision: %s/D%d", serviceURL, revisionID)

	return b.String()
}
