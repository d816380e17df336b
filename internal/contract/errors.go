package contract

import (
	"fmt"
	"strings"

	"github.com/modelbay/templatrend/schema"
)

// NotFoundError indicates that a template, request or ranking record does
// not exist.
type NotFoundError struct {
	Kind string // "template", "promotion request", "ranking record", ...
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// EligibilityError indicates that a template fails the promotion gate. It
// carries every unmet criterion so the caller sees all violations at once.
type EligibilityError struct {
	TemplateID string
	Unmet      []string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("template %q is not eligible for promotion: %s",
		e.TemplateID, strings.Join(e.Unmet, "; "))
}

// StateTransitionError indicates that an action is invalid for the
// request's current status.
type StateTransitionError struct {
	RequestID string
	Current   schema.PromotionStatus
	Action    string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("promotion request %q: cannot %s from status %q",
		e.RequestID, e.Action, e.Current)
}

// DuplicateRequestError indicates that the template already has an active
// promotion request.
type DuplicateRequestError struct {
	TemplateID string
	ExistingID string
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("template %q already has an active promotion request %q",
		e.TemplateID, e.ExistingID)
}

// AggregationError records a per-template computation failure during a
// batch run. It is logged and counted, never raised to the batch caller.
type AggregationError struct {
	Template schema.TemplateRef
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed for %s template %q: %v",
		e.Template.TemplateType, e.Template.TemplateID, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}
