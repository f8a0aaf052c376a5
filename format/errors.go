package format

import (
	"fmt"

	"github.com/pkg/errors"
)

// DataError reports input that violates the wire grammar. It is distinct
// from I/O errors: the recovery strategy is fixing the data, not retrying
// the stream.
type DataError struct {
	Reason string
	// ID is the offending feature id, 0 if unknown.
	ID int64
}

func (e *DataError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("kelojson: feature %d: %s", e.ID, e.Reason)
	}
	return "kelojson: " + e.Reason
}

// UnknownMemberTypeError reports a relation member whose type tag is not
// Node, Way or Relation.
type UnknownMemberTypeError struct {
	Tag        string
	RelationID int64
}

func (e *UnknownMemberTypeError) Error() string {
	return fmt.Sprintf("kelojson: relation %d: unknown member type %q", e.RelationID, e.Tag)
}

// IsDataError reports whether err (or its cause) classifies as a wire
// format error rather than an I/O failure.
func IsDataError(err error) bool {
	switch errors.Cause(err).(type) {
	case *DataError, *UnknownMemberTypeError:
		return true
	}
	return false
}
