package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PartialSeriesCreationError reports the known inconsistency left behind when
// the child bulk-insert failed and the compensating delete of the already
// persisted parent failed too: an orphan parent with zero children.
type PartialSeriesCreationError struct {
	ParentID        uuid.UUID
	ChildInsertErr  error
	CompensationErr error
}

func (e *PartialSeriesCreationError) Error() string {
	return fmt.Sprintf("series creation left orphan parent %s: child insert failed (%v) and compensating delete failed (%v)",
		e.ParentID, e.ChildInsertErr, e.CompensationErr)
}

func (e *PartialSeriesCreationError) Unwrap() error {
	return e.ChildInsertErr
}

// PartialPropagationError reports a propagation run that updated some but not
// all series members. Nothing is rolled back; the ids are surfaced so the
// caller can reconcile or retry.
type PartialPropagationError struct {
	SeriesParentID uuid.UUID
	UpdatedIDs     []uuid.UUID
	FailedIDs      []uuid.UUID
	Causes         []error
}

func (e *PartialPropagationError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("propagation across series %s incomplete: %d updated, %d failed: %s",
		e.SeriesParentID, len(e.UpdatedIDs), len(e.FailedIDs), strings.Join(msgs, "; "))
}
