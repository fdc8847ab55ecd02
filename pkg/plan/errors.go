package plan

import (
	"fmt"
	"strings"

	"github.com/kittclouds/goplanner/internal/store"
)

// ValidationError reports input that the manager refused to store:
// bad enum values, missing required fields, or reorder ids that do not
// belong to the stated plan.
type ValidationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PartialBulkError reports a bulk create or cascade delete that failed
// partway. It names what succeeded so the caller can reconcile instead
// of retrying blindly.
type PartialBulkError struct {
	Op string
	// SucceededIDs holds ids that were written and survived cleanup
	// (bulk create).
	SucceededIDs []string
	// Deleted holds per-kind delete counts completed before the
	// failure (cascade delete).
	Deleted map[store.Kind]int
	Err     error
}

func (e *PartialBulkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed partway: %v", e.Op, e.Err)
	if len(e.SucceededIDs) > 0 {
		fmt.Fprintf(&b, " (%d entities written)", len(e.SucceededIDs))
	}
	if len(e.Deleted) > 0 {
		fmt.Fprintf(&b, " (partial cascade: %v)", e.Deleted)
	}
	return b.String()
}

func (e *PartialBulkError) Unwrap() error { return e.Err }
