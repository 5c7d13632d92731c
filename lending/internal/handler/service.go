package handler

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	Issue(ctx context.Context, req model.IssueBookRequest) (model.IssueResponse, error)
	InitiateReturn(ctx context.Context, req model.ReturnBookRequest) (model.FineQuote, error)
	SettleFine(ctx context.Context, req model.PayFineRequest) (model.Confirmation, error)

	AvailableBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	IssuedReport(ctx context.Context) ([]model.IssuedRow, error)
	ReturnedReport(ctx context.Context) ([]model.ReturnedRow, error)
	FineReport(ctx context.Context) ([]model.FineRow, error)
	UserReport(ctx context.Context, userID int64) ([]model.IssuedRow, error)
	OverdueReport(ctx context.Context) ([]model.OverdueRow, error)
	ActiveIssues(ctx context.Context) ([]model.ActiveIssueRow, error)
}

var _ LendingService = (*service.Service)(nil)
