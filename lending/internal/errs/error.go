package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an operation was rejected. Rejections are never retried.
type Kind string

const (
	KindNotFound        Kind = "NotFound"
	KindConflict        Kind = "Conflict"
	KindInvalidInput    Kind = "InvalidInput"
	KindPolicyViolation Kind = "PolicyViolation"
)

type Reason string

const (
	ReasonUserNotFound        Reason = "user_not_found"
	ReasonBookNotFound        Reason = "book_not_found"
	ReasonTransactionNotFound Reason = "transaction_not_found"
	ReasonBookUnavailable     Reason = "book_unavailable"
	ReasonIssueDateInPast     Reason = "issue_date_in_past"
	ReasonMembershipRequired  Reason = "membership_required"
	ReasonUnpaidFine          Reason = "unpaid_fine"
	ReasonBadDueDate          Reason = "bad_due_date"
	ReasonSerialMismatch      Reason = "serial_mismatch"
	ReasonFineNotAcknowledged Reason = "fine_must_be_acknowledged"
	ReasonMissingFilter       Reason = "missing_filter"
	ReasonInvalidState        Reason = "invalid_state"
	ReasonMediaType           Reason = "unknown_media_type"
	ReasonBadRequest          Reason = "bad_request"
	ReasonMissingField        Reason = "missing_field"
)

var ErrNotFound = errors.New("not found")

type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
}

// Is matches another *Error by kind and reason so callers can compare
// against the prototypes below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Reason == "" || e.Reason == t.Reason)
}

func newErr(kind Kind, reason Reason, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: msg}
}

func NotFound(reason Reason, msg string) *Error { return newErr(KindNotFound, reason, msg) }
func Conflict(reason Reason, msg string) *Error { return newErr(KindConflict, reason, msg) }
func InvalidInput(reason Reason, msg string) *Error {
	return newErr(KindInvalidInput, reason, msg)
}
func PolicyViolation(reason Reason, msg string) *Error {
	return newErr(KindPolicyViolation, reason, msg)
}

var (
	ErrUserNotFound        = NotFound(ReasonUserNotFound, "User not found")
	ErrTransactionNotFound = NotFound(ReasonTransactionNotFound, "Active transaction not found")
	ErrBookUnavailable     = Conflict(ReasonBookUnavailable, "Book not available")
	ErrIssueDateInPast     = InvalidInput(ReasonIssueDateInPast, "Issue date cannot be lesser than today")
	ErrMembershipRequired  = PolicyViolation(ReasonMembershipRequired, "Active membership required")
	ErrUnpaidFine          = PolicyViolation(ReasonUnpaidFine, "User has unpaid fine")
	ErrBadDueDate          = InvalidInput(ReasonBadDueDate, "Return date must be within the loan window")
	ErrSerialMismatch      = InvalidInput(ReasonSerialMismatch, "Serial number mismatch")
	ErrFineNotAcknowledged = PolicyViolation(ReasonFineNotAcknowledged, "Paid fine checkbox is mandatory for pending fine")
	ErrMissingFilter       = InvalidInput(ReasonMissingFilter, "Provide either title or media_type")
	ErrUnknownMediaType    = InvalidInput(ReasonMediaType, "media_type must be book or movie")
)

// KindOf returns the rejection kind carried by err, or "" for anything that
// is not a rejection (storage failures and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

type ErrorResponse struct {
	Kind    Kind   `json:"kind,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
}
