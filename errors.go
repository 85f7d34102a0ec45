package veloxq

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for query construction and decoding.
var (
	// ErrNoSource is returned when a query is resolved without any root source.
	ErrNoSource = errors.New("veloxq: no source declared")

	// ErrJoinBeforeFrom is returned when the first declared source is a join.
	ErrJoinBeforeFrom = errors.New("veloxq: join declared before the first source")

	// ErrJoinCondition is returned when a join without an explicit condition
	// cannot be matched to exactly one foreign key.
	ErrJoinCondition = errors.New("veloxq: cannot infer join condition")

	// ErrNilStatement is returned when a transform produces a nil statement.
	ErrNilStatement = errors.New("veloxq: transform returned a nil statement")

	// ErrNoResult is returned when a query body returns an empty Result.
	ErrNoResult = errors.New("veloxq: query body did not select a result")

	// ErrUnsupported is returned when a statement uses a feature the target
	// dialect cannot express.
	ErrUnsupported = errors.New("veloxq: unsupported by dialect")

	// ErrNotSelected is returned when a row is asked for an expression that
	// is not part of the statement projection.
	ErrNotSelected = errors.New("veloxq: expression not selected")

	// ErrNotFound is returned when a query that expects a row returns none.
	ErrNotFound = errors.New("veloxq: row not found")
)

// BuildError is returned when a query body cannot be resolved into a statement.
type BuildError struct {
	Err error
}

// Error returns the error string.
func (e *BuildError) Error() string {
	return fmt.Sprintf("veloxq: building query: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func newBuildError(err error) *BuildError {
	return &BuildError{Err: err}
}

// IsBuildError returns true if the error is a BuildError.
func IsBuildError(err error) bool {
	if err == nil {
		return false
	}
	var e *BuildError
	return errors.As(err, &e)
}

// NotSelectedError is returned when a row does not hold the requested expression.
type NotSelectedError struct {
	expr string
}

// Error returns the error string.
func (e *NotSelectedError) Error() string {
	return fmt.Sprintf("veloxq: expression %s is not selected", e.expr)
}

// Is reports whether the target error matches NotSelectedError.
// This allows errors.Is(notSelectedErr, ErrNotSelected) to return true.
func (e *NotSelectedError) Is(err error) bool {
	return err == ErrNotSelected
}

// Expr returns the identity of the missing expression.
func (e *NotSelectedError) Expr() string {
	return e.expr
}

// IsNotSelected returns true if the error is a NotSelectedError.
func IsNotSelected(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSelectedError
	return errors.As(err, &e) || errors.Is(err, ErrNotSelected)
}

// NotFoundError represents an error when a query returns no rows.
type NotFoundError struct {
	label string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("veloxq: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the label of the missing result.
func (e *NotFoundError) Label() string {
	return e.label
}

// NewNotFoundError returns a new NotFoundError for the given label.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// IsUnsupported returns true if the error reports a feature the dialect
// cannot express.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

func unsupported(dialect, feature string) error {
	return fmt.Errorf("%w: %s on %s", ErrUnsupported, feature, dialect)
}
