package engine

import (
	"fmt"

	"github.com/piwi3910/FilletCorners/internal/host"
)

// User-facing messages.
const (
	NoSelectionMessage = "Select vertices, edges, or faces to begin."
	FailureMessage     = "Failed to create a fillet arc given the selected geometry.\n" +
		"Try selecting faces, connected edges, or vertices with at least 2 attached edges, and try again."
)

func vertices(n int) string {
	if n == 1 {
		return "vertex"
	}
	return "vertices"
}

// Summary returns the single notification for a finished run.
func Summary(t Tally) (string, host.Severity) {
	switch {
	case t.Succeeded > 0 && t.Failed == 0:
		return fmt.Sprintf("Created a new fillet arc at %d %s.", t.Succeeded, vertices(t.Succeeded)), host.SeveritySuccess
	case t.Succeeded > 0:
		return fmt.Sprintf("Created a new fillet arc at %d %s, but failed to fillet at %d %s.",
			t.Succeeded, vertices(t.Succeeded), t.Failed, vertices(t.Failed)), host.SeverityInfo
	default:
		return FailureMessage, host.SeverityError
	}
}
