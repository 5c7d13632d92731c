package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/pkg/errors"
)

func (s *Service) IssuedReport(ctx context.Context) ([]model.IssuedRow, error) {
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "issued report")
	}
	return mapRows(views, issuedRow), nil
}

func (s *Service) ReturnedReport(ctx context.Context) ([]model.ReturnedRow, error) {
	closed := false
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{Open: &closed})
	if err != nil {
		return nil, errors.Wrap(err, "returned report")
	}
	return mapRows(views, func(v model.TransactionView) model.ReturnedRow {
		return model.ReturnedRow{
			TransactionID: v.ID,
			UserID:        v.UserID,
			Username:      v.Username,
			BookID:        v.BookID,
			BookTitle:     v.BookTitle,
			IssueDate:     v.IssueDate,
			ReturnDate:    *v.ReturnDate,
			FinePaid:      v.FinePaid,
			Status:        model.IssueStatusReturned,
		}
	}), nil
}

func (s *Service) FineReport(ctx context.Context) ([]model.FineRow, error) {
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "fine report")
	}
	return mapRows(views, func(v model.TransactionView) model.FineRow {
		status := model.FineStatusClear
		if v.HasUnpaidFine() {
			status = model.FineStatusPending
		}
		return model.FineRow{
			TransactionID: v.ID,
			UserID:        v.UserID,
			BookID:        v.BookID,
			BookTitle:     v.BookTitle,
			DueDate:       v.DueDate,
			ReturnDate:    v.ReturnDate,
			Fine:          v.CalculatedFine,
			FinePaid:      v.FinePaid,
			Status:        status,
		}
	}), nil
}

// UserReport has the issued report's shape, restricted to one user.
func (s *Service) UserReport(ctx context.Context, userID int64) ([]model.IssuedRow, error) {
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "user report")
	}
	return mapRows(views, issuedRow), nil
}

// OverdueReport lists open loans already past due today. The fine here is a
// projection; the stored fine is only set once a return is initiated.
func (s *Service) OverdueReport(ctx context.Context) ([]model.OverdueRow, error) {
	open, today := true, s.today()
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{Open: &open, DueBefore: &today})
	if err != nil {
		return nil, errors.Wrap(err, "overdue report")
	}
	return mapRows(views, func(v model.TransactionView) model.OverdueRow {
		return model.OverdueRow{
			TransactionID: v.ID,
			UserID:        v.UserID,
			Username:      v.Username,
			BookID:        v.BookID,
			BookTitle:     v.BookTitle,
			DueDate:       v.DueDate,
			DaysLate:      model.DaysLate(v.DueDate, today),
			Fine:          s.policy.Fine(v.DueDate, today),
		}
	}), nil
}

func (s *Service) ActiveIssues(ctx context.Context) ([]model.ActiveIssueRow, error) {
	open := true
	views, err := s.repo.ListTransactions(ctx, model.TransactionFilter{Open: &open})
	if err != nil {
		return nil, errors.Wrap(err, "active issues")
	}
	return mapRows(views, func(v model.TransactionView) model.ActiveIssueRow {
		return model.ActiveIssueRow{
			TransactionID: v.ID,
			UserID:        v.UserID,
			BookID:        v.BookID,
			IssueDate:     v.IssueDate,
			DueDate:       v.DueDate,
		}
	}), nil
}

// AvailableBooks searches the catalog for books that can be issued now.
// At least one of title or media type is required; media type is matched
// case-insensitively.
func (s *Service) AvailableBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.MediaType = model.MediaType(strings.ToLower(strings.TrimSpace(string(filter.MediaType))))
	if filter.Empty() {
		return nil, errs.ErrMissingFilter
	}
	if filter.MediaType != "" && !filter.MediaType.Valid() {
		return nil, errs.ErrUnknownMediaType
	}
	books, err := s.repo.ListAvailableBooks(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "available books")
	}
	return books, nil
}

func issuedRow(v model.TransactionView) model.IssuedRow {
	status := model.IssueStatusIssued
	if v.ReturnDate != nil {
		status = model.IssueStatusReturned
	}
	return model.IssuedRow{
		TransactionID: v.ID,
		UserID:        v.UserID,
		Username:      v.Username,
		BookID:        v.BookID,
		BookTitle:     v.BookTitle,
		IssueDate:     v.IssueDate,
		DueDate:       v.DueDate,
		ReturnDate:    v.ReturnDate,
		Status:        status,
	}
}

func mapRows[R any](views []model.TransactionView, f func(model.TransactionView) R) []R {
	rows := make([]R, 0, len(views))
	for _, v := range views {
		rows = append(rows, f(v))
	}
	return rows
}
