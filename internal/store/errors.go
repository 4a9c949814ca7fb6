package store

import (
	"errors"
	"fmt"
)

// ErrDoctorIssuesFound signals a doctor run that found errors, for callers
// that want a non-zero exit.
var ErrDoctorIssuesFound = errors.New("doctor found errors")

// NotFoundError reports an unknown task, session, or plan item id. Callers
// treat it as a normal outcome, not a failure; match on the type rather
// than the message.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func errNotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
