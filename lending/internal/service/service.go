package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/eligibility"
	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/events"
	"github.com/Astemirdum/library-lending/lending/internal/metrics"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	opIssue  = "issue"
	opReturn = "initiate_return"
	opSettle = "settle_fine"
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	policy    model.Policy
	now       func() time.Time
	publisher events.Publisher
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithPolicy(p model.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock replaces time.Now; "today" for every rule is the calendar day of clock().
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.now = clock }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		policy:    model.DefaultPolicy(),
		now:       time.Now,
		publisher: events.NewNopPublisher(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() model.Date {
	return model.DateOf(s.now())
}

// Issue lends a book to a user. Checks run in a fixed order and the first
// failing one is returned.
func (s *Service) Issue(ctx context.Context, req model.IssueBookRequest) (model.IssueResponse, error) {
	start := time.Now()
	var (
		txn  model.Transaction
		book model.Book
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUser(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.ErrUserNotFound
			}
			return err
		}

		var found *model.Book
		book, err = tx.LockBook(ctx, req.BookID)
		switch {
		case err == nil:
			found = &book
		case !errors.Is(err, errs.ErrNotFound):
			return err
		}
		if err = eligibility.BookIsAvailable(found).Err(); err != nil {
			return err
		}

		if err = eligibility.IssueDateNotPast(req.IssueDate, s.today()).Err(); err != nil {
			return err
		}

		membership, err := s.membershipOf(ctx, tx, user)
		if err != nil {
			return err
		}
		if err = eligibility.MembershipValid(user, membership, req.IssueDate).Err(); err != nil {
			return err
		}

		history, err := tx.ListUserTransactions(ctx, user.ID)
		if err != nil {
			return err
		}
		if err = eligibility.NoUnpaidFine(history).Err(); err != nil {
			return err
		}

		due := eligibility.DueDate(req.IssueDate, req.ReturnDate, s.policy.LoanDays)
		if err = eligibility.WithinLoanWindow(req.IssueDate, due, s.policy.LoanDays).Err(); err != nil {
			return err
		}

		txn, err = tx.CreateTransaction(ctx, model.NewTransaction(user.ID, book.ID, req.IssueDate, due, req.Remarks))
		if err != nil {
			return err
		}
		flipped, err := tx.SetBookAvailable(ctx, book.ID, false)
		if err != nil {
			return err
		}
		if !flipped {
			return errs.ErrBookUnavailable
		}
		return nil
	})
	s.metrics.Observe(opIssue, err, time.Since(start))
	if err != nil {
		s.logRejection(opIssue, err, zap.Int64("user_id", req.UserID), zap.Int64("book_id", req.BookID))
		return model.IssueResponse{}, err
	}

	s.log.Info("book issued",
		zap.Int64("transaction_id", txn.ID),
		zap.Int64("user_id", txn.UserID),
		zap.Int64("book_id", txn.BookID),
		zap.Stringer("due_date", txn.DueDate))
	s.publish(ctx, events.TypeIssued, txn)

	return model.IssueResponse{
		Message:       "Book issued successfully",
		TransactionID: txn.ID,
		BookName:      book.Title,
		Author:        book.Author,
		IssueDate:     txn.IssueDate,
		ReturnDate:    txn.DueDate,
		DueDate:       txn.DueDate,
	}, nil
}

func (s *Service) membershipOf(ctx context.Context, tx repository.Tx, user model.User) (*model.Membership, error) {
	if user.MembershipID == nil {
		return nil, nil
	}
	m, err := tx.GetMembership(ctx, *user.MembershipID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// InitiateReturn quotes the fine for returning the item on req.ReturnDate.
// The loan stays open until SettleFine.
func (s *Service) InitiateReturn(ctx context.Context, req model.ReturnBookRequest) (model.FineQuote, error) {
	start := time.Now()
	var (
		txn  model.Transaction
		book model.Book
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		txn, err = tx.LockOpenTransaction(ctx, req.TransactionID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.ErrTransactionNotFound
			}
			return err
		}
		book, err = tx.LockBook(ctx, txn.BookID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NotFound(errs.ReasonBookNotFound, "Book not found")
			}
			return err
		}
		if book.SerialNo != req.SerialNo {
			return errs.ErrSerialMismatch
		}
		if err = txn.QuoteReturn(req.ReturnDate, s.policy); err != nil {
			return err
		}
		return tx.UpdateTransaction(ctx, txn)
	})
	s.metrics.Observe(opReturn, err, time.Since(start))
	if err != nil {
		s.logRejection(opReturn, err, zap.Int64("transaction_id", req.TransactionID))
		return model.FineQuote{}, err
	}

	s.log.Info("return initiated",
		zap.Int64("transaction_id", txn.ID),
		zap.Stringer("return_date", req.ReturnDate),
		zap.Int("fine", txn.CalculatedFine))
	s.publish(ctx, events.TypeReturnInitiated, txn)

	return model.FineQuote{
		Message:            "Proceed to pay fine page",
		TransactionID:      txn.ID,
		BookName:           book.Title,
		Author:             book.Author,
		SerialNo:           book.SerialNo,
		IssueDate:          txn.IssueDate,
		ReturnDate:         txn.DueDate,
		SelectedReturnDate: req.ReturnDate,
		Fine:               txn.CalculatedFine,
	}, nil
}

// SettleFine closes a return-pending loan and frees the book.
func (s *Service) SettleFine(ctx context.Context, req model.PayFineRequest) (model.Confirmation, error) {
	start := time.Now()
	var txn model.Transaction
	err := s.repo.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		txn, err = tx.LockOpenTransaction(ctx, req.TransactionID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.ErrTransactionNotFound
			}
			return err
		}
		if err = txn.Settle(req.FinePaid, req.Remarks, s.today()); err != nil {
			return err
		}
		if err = tx.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		flipped, err := tx.SetBookAvailable(ctx, txn.BookID, true)
		if err != nil {
			return err
		}
		if !flipped {
			s.log.Warn("book was already available on settlement",
				zap.Int64("transaction_id", txn.ID),
				zap.Int64("book_id", txn.BookID))
		}
		return nil
	})
	s.metrics.Observe(opSettle, err, time.Since(start))
	if err != nil {
		s.logRejection(opSettle, err, zap.Int64("transaction_id", req.TransactionID))
		return model.Confirmation{}, err
	}

	s.log.Info("book returned",
		zap.Int64("transaction_id", txn.ID),
		zap.Int("fine_paid", txn.FinePaid))
	s.publish(ctx, events.TypeSettled, txn)

	return model.Confirmation{
		Message:       "Book returned successfully",
		TransactionID: txn.ID,
		FinePaid:      txn.FinePaid,
		ReturnDate:    *txn.ReturnDate,
	}, nil
}

func (s *Service) logRejection(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	if errs.KindOf(err) != "" {
		s.log.Info("operation rejected", fields...)
		return
	}
	s.log.Error("operation failed", fields...)
}

func (s *Service) publish(ctx context.Context, typ events.Type, txn model.Transaction) {
	if err := s.publisher.Publish(ctx, events.New(typ, txn, s.now())); err != nil {
		s.log.Warn("publish event",
			zap.String("type", string(typ)),
			zap.Int64("transaction_id", txn.ID),
			zap.Error(err))
	}
}
