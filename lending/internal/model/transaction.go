package model

import (
	"fmt"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
)

type Status string

const (
	StatusOpen          Status = "OPEN"
	StatusReturnPending Status = "RETURN_PENDING"
	StatusClosed        Status = "CLOSED"
)

// Transaction is one lending record. PendingReturnDate is set only while
// RETURN_PENDING and ReturnDate only once CLOSED; the transition methods keep
// it that way.
type Transaction struct {
	ID                int64  `json:"transaction_id"`
	UserID            int64  `json:"user_id"`
	BookID            int64  `json:"book_id"`
	IssueDate         Date   `json:"issue_date"`
	DueDate           Date   `json:"due_date"`
	Status            Status `json:"status"`
	PendingReturnDate *Date  `json:"pending_return_date,omitempty"`
	ReturnDate        *Date  `json:"return_date,omitempty"`
	CalculatedFine    int    `json:"calculated_fine"`
	FinePaid          int    `json:"fine_paid"`
	Remarks           string `json:"remarks,omitempty"`
}

func NewTransaction(userID, bookID int64, issue, due Date, remarks string) Transaction {
	return Transaction{
		UserID:    userID,
		BookID:    bookID,
		IssueDate: issue,
		DueDate:   due,
		Status:    StatusOpen,
		Remarks:   remarks,
	}
}

// IsOpen is true until the transaction is settled; RETURN_PENDING is open.
func (t Transaction) IsOpen() bool {
	return t.Status != StatusClosed
}

func (t Transaction) HasUnpaidFine() bool {
	return t.CalculatedFine > t.FinePaid
}

// QuoteReturn records a tentative return on the given day and the fine owed
// for it. Calling it again replaces the previous quote.
func (t *Transaction) QuoteReturn(on Date, p Policy) error {
	if !t.IsOpen() {
		return errs.ErrTransactionNotFound
	}
	t.Status = StatusReturnPending
	t.PendingReturnDate = &on
	t.CalculatedFine = p.Fine(t.DueDate, on)
	return nil
}

// Settle closes a return-pending transaction. A nonzero fine must be
// acknowledged as paid; there is no waiver path.
func (t *Transaction) Settle(finePaid bool, remarks string, today Date) error {
	if t.Status != StatusReturnPending {
		return errs.ErrTransactionNotFound
	}
	if t.CalculatedFine > 0 && !finePaid {
		return errs.ErrFineNotAcknowledged
	}
	t.FinePaid = 0
	if finePaid {
		t.FinePaid = t.CalculatedFine
	}
	returned := today
	if t.PendingReturnDate != nil {
		returned = *t.PendingReturnDate
	}
	t.ReturnDate = &returned
	t.PendingReturnDate = nil
	if remarks != "" {
		t.Remarks = remarks
	}
	t.Status = StatusClosed
	return nil
}

func (t Transaction) Validate() error {
	invalid := func(format string, args ...any) error {
		return errs.InvalidInput(errs.ReasonInvalidState, fmt.Sprintf("transaction %d: ", t.ID)+fmt.Sprintf(format, args...))
	}
	switch t.Status {
	case StatusOpen:
		if t.PendingReturnDate != nil || t.ReturnDate != nil {
			return invalid("open transaction carries return dates")
		}
	case StatusReturnPending:
		if t.PendingReturnDate == nil || t.ReturnDate != nil {
			return invalid("return pending needs exactly a pending return date")
		}
	case StatusClosed:
		if t.ReturnDate == nil || t.PendingReturnDate != nil {
			return invalid("closed transaction needs exactly a return date")
		}
		if t.FinePaid != 0 && t.FinePaid != t.CalculatedFine {
			return invalid("fine paid %d differs from fine %d", t.FinePaid, t.CalculatedFine)
		}
	default:
		return invalid("unknown status %q", t.Status)
	}
	if t.CalculatedFine < 0 || t.FinePaid < 0 {
		return invalid("negative fine")
	}
	if t.DueDate.Before(t.IssueDate) {
		return invalid("due date before issue date")
	}
	return nil
}
