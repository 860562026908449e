package entities

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// ErrorKind classifies a planning failure
type ErrorKind int

const (
	// MissingJoinKey marks a demand line without a master match. It is reported
	// as a warning and never aborts a run.
	MissingJoinKey ErrorKind = iota
	InvalidLotConfiguration
	NonNumericField
	AmbiguousCenterIdentity
	MalformedTable
)

func (k ErrorKind) String() string {
	switch k {
	case MissingJoinKey:
		return "MissingJoinKey"
	case InvalidLotConfiguration:
		return "InvalidLotConfiguration"
	case NonNumericField:
		return "NonNumericField"
	case AmbiguousCenterIdentity:
		return "AmbiguousCenterIdentity"
	case MalformedTable:
		return "MalformedTable"
	default:
		return "Unknown"
	}
}

// PlanError is the typed failure returned by every stage of a planning run
type PlanError struct {
	Kind    ErrorKind
	Table   string
	Row     int // 1-based data row, 0 when not row specific
	Field   string
	Value   string
	Group   string
	Message string
	cause   error
}

// NewPlanError creates a PlanError of the given kind
func NewPlanError(kind ErrorKind, msg string) *PlanError {
	return &PlanError{Kind: kind, Message: msg}
}

// NewPlanErrorf creates a PlanError with a formatted message
func NewPlanErrorf(kind ErrorKind, format string, args ...any) *PlanError {
	return &PlanError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *PlanError) Error() string {
	path := []string{e.Kind.String()}
	if e.Table != "" {
		path = append(path, fmt.Sprintf("table '%s'", e.Table))
	}
	if e.Row > 0 {
		path = append(path, fmt.Sprintf("row %d", e.Row))
	}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Group != "" {
		path = append(path, fmt.Sprintf("group %s", e.Group))
	}

	msg := e.Message
	if e.Value != "" {
		msg = fmt.Sprintf("%s (value %q)", msg, e.Value)
	}
	return strings.Join(path, " -> ") + ": " + msg
}

func (e *PlanError) Unwrap() error {
	return e.cause
}

// WithTable records the input table the error refers to
func (e *PlanError) WithTable(table string) *PlanError {
	e.Table = table
	return e
}

// WithRow records the 1-based data row
func (e *PlanError) WithRow(row int) *PlanError {
	e.Row = row
	return e
}

// WithField records the offending column
func (e *PlanError) WithField(field string) *PlanError {
	e.Field = field
	return e
}

// WithValue records the offending raw value
func (e *PlanError) WithValue(value string) *PlanError {
	e.Value = value
	return e
}

// WithGroup records the lot group key
func (e *PlanError) WithGroup(group string) *PlanError {
	e.Group = group
	return e
}

// WithCause attaches the underlying error
func (e *PlanError) WithCause(err error) *PlanError {
	e.cause = err
	return e
}

// ToHTTPError maps the failure onto an API error carrying its context as metadata
func (e *PlanError) ToHTTPError() *httperror.HTTPError {
	status := http.StatusUnprocessableEntity
	if e.Kind == MissingJoinKey {
		status = http.StatusInternalServerError
	}
	return httperror.NewHTTPError(status, e.Error()).
		AddMetaValue("kind", e.Kind.String()).
		AddMetaValue("table", e.Table).
		AddMetaValue("row", strconv.Itoa(e.Row)).
		AddMetaValue("field", e.Field).
		AddMetaValue("group", e.Group)
}

// AsPlanError extracts a PlanError from an error chain
func AsPlanError(err error) (*PlanError, bool) {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err carries a PlanError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	pe, ok := AsPlanError(err)
	return ok && pe.Kind == kind
}
