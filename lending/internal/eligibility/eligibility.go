// Package eligibility holds the side-effect-free checks a loan must pass
// before it is issued. Callers load the records; nothing here touches storage.
package eligibility

import (
	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

type Verdict struct {
	Allowed   bool
	Rejection *errs.Error
}

func allow() Verdict { return Verdict{Allowed: true} }

func deny(err *errs.Error) Verdict { return Verdict{Rejection: err} }

// Err is nil when the verdict allows the operation.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	return v.Rejection
}

func BookIsAvailable(book *model.Book) Verdict {
	if book == nil || !book.Available {
		return deny(errs.ErrBookUnavailable)
	}
	return allow()
}

// MembershipValid requires the user to reference a membership that exists,
// is active and covers on.
func MembershipValid(user model.User, membership *model.Membership, on model.Date) Verdict {
	if user.MembershipID == nil || membership == nil || membership.ID != *user.MembershipID {
		return deny(errs.ErrMembershipRequired)
	}
	if !membership.ValidOn(on) {
		return deny(errs.ErrMembershipRequired)
	}
	return allow()
}

// HasUnpaidFine looks at every transaction given, closed ones included.
func HasUnpaidFine(txns []model.Transaction) bool {
	for _, t := range txns {
		if t.HasUnpaidFine() {
			return true
		}
	}
	return false
}

func NoUnpaidFine(txns []model.Transaction) Verdict {
	if HasUnpaidFine(txns) {
		return deny(errs.ErrUnpaidFine)
	}
	return allow()
}

func IssueDateNotPast(issue, today model.Date) Verdict {
	if issue.Before(today) {
		return deny(errs.ErrIssueDateInPast)
	}
	return allow()
}

// WithinLoanWindow checks issue <= due <= issue+loanDays.
func WithinLoanWindow(issue, due model.Date, loanDays int) Verdict {
	if due.Before(issue) || due.After(issue.AddDays(loanDays)) {
		return deny(errs.ErrBadDueDate)
	}
	return allow()
}

// DueDate is the requested return date or, when absent, the end of the loan window.
func DueDate(issue model.Date, requested *model.Date, loanDays int) model.Date {
	if requested != nil && !requested.IsZero() {
		return *requested
	}
	return issue.AddDays(loanDays)
}
