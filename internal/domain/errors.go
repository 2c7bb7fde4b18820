package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGraphNotFound reports that no plan source exists for a graph name.
	ErrGraphNotFound = errors.New("graph not found")

	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileName = errors.New("invalid file name")
)

// ParseError names the plan or request element that could not be parsed.
// Index is the zero-based position of the element among its siblings, or -1
// when the failure concerns the whole document.
type ParseError struct {
	Element string
	Index   int
	Attr    string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Element)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Attr != "" {
		fmt.Fprintf(&b, ": attribute %q", e.Attr)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " = %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// GraphLoadError is returned when a named graph cannot be loaded, either
// because its source is missing (wraps ErrGraphNotFound) or malformed
// (wraps a *ParseError).
type GraphLoadError struct {
	Name string
	Err  error
}

func (e *GraphLoadError) Error() string {
	return fmt.Sprintf("load graph %q: %v", e.Name, e.Err)
}

func (e *GraphLoadError) Unwrap() error { return e.Err }

// AssignmentInfeasibleError is returned when no courier can take any of the
// remaining delivery points because every candidate insertion crosses an
// unreachable pair of nodes.
type AssignmentInfeasibleError struct {
	Unassigned []DeliveryPoint
}

func (e *AssignmentInfeasibleError) Error() string {
	if len(e.Unassigned) == 0 {
		return "cannot assign all requests: some points are unreachable"
	}
	p := e.Unassigned[0]
	return fmt.Sprintf(
		"cannot assign all requests: %d unassigned, first pickup=%q delivery=%q is unreachable",
		len(e.Unassigned), p.PickupNodeID, p.DeliveryNodeID,
	)
}

// InternalConsistencyError marks a pair of route nodes that was accepted as
// feasible during insertion but has no expandable path at assembly time.
// It signals a bookkeeping bug, never bad input.
type InternalConsistencyError struct {
	From   string
	To     string
	Reason string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency fault: %s -> %s: %s", e.From, e.To, e.Reason)
}

// ValidationError rejects a malformed delivery request before any routing work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// StatusOf maps a routing error to the status stored in the run history.
func StatusOf(err error) RunStatus {
	var (
		ve *ValidationError
		ge *GraphLoadError
		ie *AssignmentInfeasibleError
		ce *InternalConsistencyError
	)
	switch {
	case err == nil:
		return RunStatusOK
	case errors.As(err, &ve):
		return RunStatusInvalid
	case errors.As(err, &ge):
		return RunStatusGraphError
	case errors.As(err, &ie):
		return RunStatusInfeasible
	case errors.As(err, &ce):
		return RunStatusFault
	default:
		return RunStatusFault
	}
}
