package quest

import (
	"errors"
	"fmt"
)

// Kind classifies why extraction failed for one participant
type Kind string

const (
	KindFetchFailed    Kind = "FetchFailed"
	KindNoQuests       Kind = "NoQuestsFound"
	KindBadgeStructure Kind = "UnexpectedBadgeStructure"
	KindDateParse      Kind = "DateParseError"
	KindUnknown        Kind = "Unknown"
)

// Error is an extraction failure for a single participant.
// Kind is stable for reporting; Reason is the human readable text shown in the error report.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// Errorf creates an Error of the given kind with a formatted reason
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}
