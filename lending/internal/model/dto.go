package model

type IssueBookRequest struct {
	UserID     int64  `json:"user_id" validate:"required,gt=0"`
	BookID     int64  `json:"book_id" validate:"required,gt=0"`
	IssueDate  Date   `json:"issue_date"`
	ReturnDate *Date  `json:"return_date,omitempty"`
	Remarks    string `json:"remarks,omitempty" validate:"max=1000"`
}

type ReturnBookRequest struct {
	TransactionID int64  `json:"transaction_id" validate:"required,gt=0"`
	SerialNo      string `json:"serial_no" validate:"required,max=50"`
	ReturnDate    Date   `json:"return_date"`
}

type PayFineRequest struct {
	TransactionID int64  `json:"transaction_id" validate:"required,gt=0"`
	FinePaid      bool   `json:"fine_paid"`
	Remarks       string `json:"remarks,omitempty" validate:"max=1000"`
}

type IssueResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
	BookName      string `json:"book_name"`
	Author        string `json:"author"`
	IssueDate     Date   `json:"issue_date"`
	ReturnDate    Date   `json:"return_date"`
	DueDate       Date   `json:"due_date"`
}

// FineQuote is what a patron owes for a tentative return, pending settlement.
type FineQuote struct {
	Message            string `json:"message"`
	TransactionID      int64  `json:"transaction_id"`
	BookName           string `json:"book_name"`
	Author             string `json:"author"`
	SerialNo           string `json:"serial_no"`
	IssueDate          Date   `json:"issue_date"`
	ReturnDate         Date   `json:"return_date"`
	SelectedReturnDate Date   `json:"selected_return_date"`
	Fine               int    `json:"fine"`
}

type Confirmation struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
	FinePaid      int    `json:"fine_paid"`
	ReturnDate    Date   `json:"return_date"`
}

type BookFilter struct {
	Title     string    `query:"title"`
	MediaType MediaType `query:"media_type"`
}

func (f BookFilter) Empty() bool {
	return f.Title == "" && f.MediaType == ""
}

type TransactionFilter struct {
	UserID    *int64
	Open      *bool
	DueBefore *Date
}

// TransactionView is a transaction joined with the book and user it refers to.
type TransactionView struct {
	Transaction
	BookTitle  string
	BookAuthor string
	SerialNo   string
	Username   string
}

const (
	IssueStatusIssued   = "Issued"
	IssueStatusReturned = "Returned"
	FineStatusPending   = "Fine Pending"
	FineStatusClear     = "Clear"
)

type IssuedRow struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	BookID        int64  `json:"book_id"`
	BookTitle     string `json:"book_title"`
	IssueDate     Date   `json:"issue_date"`
	DueDate       Date   `json:"due_date"`
	ReturnDate    *Date  `json:"return_date"`
	Status        string `json:"status"`
}

type ReturnedRow struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	BookID        int64  `json:"book_id"`
	BookTitle     string `json:"book_title"`
	IssueDate     Date   `json:"issue_date"`
	ReturnDate    Date   `json:"return_date"`
	FinePaid      int    `json:"fine_paid"`
	Status        string `json:"status"`
}

type FineRow struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	BookID        int64  `json:"book_id"`
	BookTitle     string `json:"book_title"`
	DueDate       Date   `json:"due_date"`
	ReturnDate    *Date  `json:"return_date"`
	Fine          int    `json:"fine"`
	FinePaid      int    `json:"fine_paid"`
	Status        string `json:"status"`
}

type OverdueRow struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	BookID        int64  `json:"book_id"`
	BookTitle     string `json:"book_title"`
	DueDate       Date   `json:"due_date"`
	DaysLate      int    `json:"days_late"`
	Fine          int    `json:"fine"`
}

type ActiveIssueRow struct {
	TransactionID int64 `json:"transaction_id"`
	UserID        int64 `json:"user_id"`
	BookID        int64 `json:"book_id"`
	IssueDate     Date  `json:"issue_date"`
	DueDate       Date  `json:"due_date"`
}
