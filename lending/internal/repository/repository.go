package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Repository is the entity store. Writes go through RunInTx so that a
// transaction row change and the matching book availability flip commit
// together or not at all.
type Repository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionView, error)
	ListAvailableBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
}

// Tx is the view of the store inside one unit of work. Get methods return
// errs.ErrNotFound when the row is absent.
type Tx interface {
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetMembership(ctx context.Context, id int64) (model.Membership, error)
	// LockBook reads the book and holds it against concurrent writers until the unit of work ends.
	LockBook(ctx context.Context, id int64) (model.Book, error)
	ListUserTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)
	// LockOpenTransaction returns the transaction only while it has no return date.
	LockOpenTransaction(ctx context.Context, id int64) (model.Transaction, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) error
	// SetBookAvailable flips the flag only if it currently holds the opposite
	// value and reports whether it did.
	SetBookAvailable(ctx context.Context, bookID int64, available bool) (bool, error)
}

var (
	_ Repository = (*repository)(nil)
	_ Repository = (*MemoryRepository)(nil)
	_ Tx         = (*pgTx)(nil)
	_ Tx         = (*memoryTx)(nil)
)

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName        = `users`
	booksTableName        = `books`
	membershipsTableName  = `memberships`
	transactionsTableName = `transactions`

	openBookIndexName = `transactions_open_book_uidx`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var transactionColumns = []string{
	"t.id", "t.user_id", "t.book_id", "t.issue_date", "t.due_date", "t.status",
	"t.pending_return_date", "t.return_date", "t.calculated_fine", "t.fine_paid", "t.remarks",
}

type transactionRow struct {
	ID                int64      `db:"id"`
	UserID            int64      `db:"user_id"`
	BookID            int64      `db:"book_id"`
	IssueDate         time.Time  `db:"issue_date"`
	DueDate           time.Time  `db:"due_date"`
	Status            string     `db:"status"`
	PendingReturnDate *time.Time `db:"pending_return_date"`
	ReturnDate        *time.Time `db:"return_date"`
	CalculatedFine    int        `db:"calculated_fine"`
	FinePaid          int        `db:"fine_paid"`
	Remarks           *string    `db:"remarks"`
}

type transactionViewRow struct {
	ID                int64      `db:"id"`
	UserID            int64      `db:"user_id"`
	BookID            int64      `db:"book_id"`
	IssueDate         time.Time  `db:"issue_date"`
	DueDate           time.Time  `db:"due_date"`
	Status            string     `db:"status"`
	PendingReturnDate *time.Time `db:"pending_return_date"`
	ReturnDate        *time.Time `db:"return_date"`
	CalculatedFine    int        `db:"calculated_fine"`
	FinePaid          int        `db:"fine_paid"`
	Remarks           *string    `db:"remarks"`
	BookTitle         string     `db:"book_title"`
	BookAuthor        string     `db:"book_author"`
	SerialNo          string     `db:"serial_no"`
	Username          string     `db:"username"`
}

type membershipRow struct {
	ID               int64     `db:"id"`
	MembershipNumber string    `db:"membership_number"`
	Name             string    `db:"name"`
	MembershipType   string    `db:"membership_type"`
	StartDate        time.Time `db:"start_date"`
	EndDate          time.Time `db:"end_date"`
	Active           bool      `db:"active"`
}

func datePtr(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}

func timePtr(d *model.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func (r transactionRow) toModel() model.Transaction {
	t := model.Transaction{
		ID:                r.ID,
		UserID:            r.UserID,
		BookID:            r.BookID,
		IssueDate:         model.DateOf(r.IssueDate),
		DueDate:           model.DateOf(r.DueDate),
		Status:            model.Status(r.Status),
		PendingReturnDate: datePtr(r.PendingReturnDate),
		ReturnDate:        datePtr(r.ReturnDate),
		CalculatedFine:    r.CalculatedFine,
		FinePaid:          r.FinePaid,
	}
	if r.Remarks != nil {
		t.Remarks = *r.Remarks
	}
	return t
}

func (r membershipRow) toModel() model.Membership {
	return model.Membership{
		ID:               r.ID,
		MembershipNumber: r.MembershipNumber,
		Name:             r.Name,
		MembershipType:   r.MembershipType,
		StartDate:        model.DateOf(r.StartDate),
		EndDate:          model.DateOf(r.EndDate),
		Active:           r.Active,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *repository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &pgTx{tx: tx, log: r.log})
	})
}

func (r *repository) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.TransactionView, error) {
	q := qb.Select(append(transactionColumns,
		"b.title as book_title", "b.author as book_author", "b.serial_no", "u.username")...).
		From(transactionsTableName + " t").
		Join(fmt.Sprintf("%s b on b.id = t.book_id", booksTableName)).
		Join(fmt.Sprintf("%s u on u.id = t.user_id", usersTableName)).
		OrderBy("t.id")

	if filter.UserID != nil {
		q = q.Where(sq.Eq{"t.user_id": *filter.UserID})
	}
	if filter.Open != nil {
		if *filter.Open {
			q = q.Where(sq.Eq{"t.return_date": nil})
		} else {
			q = q.Where(sq.NotEq{"t.return_date": nil})
		}
	}
	if filter.DueBefore != nil {
		q = q.Where(sq.Lt{"t.due_date": filter.DueBefore.Time})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListTransactions", zap.String("query", query), zap.Any("args", args))

	var views []model.TransactionView
	err = pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items, err := pgx.CollectRows(rows, pgx.RowToStructByName[transactionViewRow])
		if err != nil {
			return fmt.Errorf("pgx.CollectRows: %w", err)
		}
		views = make([]model.TransactionView, 0, len(items))
		for _, it := range items {
			views = append(views, model.TransactionView{
				Transaction: transactionRow{
					ID:                it.ID,
					UserID:            it.UserID,
					BookID:            it.BookID,
					IssueDate:         it.IssueDate,
					DueDate:           it.DueDate,
					Status:            it.Status,
					PendingReturnDate: it.PendingReturnDate,
					ReturnDate:        it.ReturnDate,
					CalculatedFine:    it.CalculatedFine,
					FinePaid:          it.FinePaid,
					Remarks:           it.Remarks,
				}.toModel(),
				BookTitle:  it.BookTitle,
				BookAuthor: it.BookAuthor,
				SerialNo:   it.SerialNo,
				Username:   it.Username,
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "ListTransactions")
	}
	return views, nil
}

func (r *repository) ListAvailableBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := qb.Select("id", "title", "author", "serial_no", "media_type", "category", "available").
		From(booksTableName).
		Where(sq.Eq{"available": true}).
		OrderBy("id")
	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.MediaType != "" {
		q = q.Where(sq.Eq{"media_type": filter.MediaType})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListAvailableBooks")
	}
	defer rows.Close()

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return books, nil
}

type pgTx struct {
	tx  pgx.Tx
	log *zap.Logger
}

func (t *pgTx) collectOne(ctx context.Context, q sq.SelectBuilder, scan func(rows pgx.Rows) error) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if err = scan(rows); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		t.log.Error("collectOne", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return err
	}
	return nil
}

func (t *pgTx) GetUser(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := t.collectOne(ctx,
		qb.Select("id", "username", "name", "role", "membership_id").
			From(usersTableName).
			Where(sq.Eq{"id": id}),
		func(rows pgx.Rows) (err error) {
			user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
			return err
		})
	return user, err
}

func (t *pgTx) GetMembership(ctx context.Context, id int64) (model.Membership, error) {
	var m membershipRow
	err := t.collectOne(ctx,
		qb.Select("id", "membership_number", "name", "membership_type", "start_date", "end_date", "active").
			From(membershipsTableName).
			Where(sq.Eq{"id": id}),
		func(rows pgx.Rows) (err error) {
			m, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[membershipRow])
			return err
		})
	if err != nil {
		return model.Membership{}, err
	}
	return m.toModel(), nil
}

func (t *pgTx) LockBook(ctx context.Context, id int64) (model.Book, error) {
	var book model.Book
	err := t.collectOne(ctx,
		qb.Select("id", "title", "author", "serial_no", "media_type", "category", "available").
			From(booksTableName).
			Where(sq.Eq{"id": id}).
			Suffix("FOR UPDATE"),
		func(rows pgx.Rows) (err error) {
			book, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
			return err
		})
	return book, err
}

func (t *pgTx) ListUserTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	query, args, err := qb.Select(transactionColumns...).
		From(transactionsTableName + " t").
		Where(sq.Eq{"t.user_id": userID}).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[transactionRow])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	txns := make([]model.Transaction, 0, len(items))
	for _, it := range items {
		txns = append(txns, it.toModel())
	}
	return txns, nil
}

func (t *pgTx) LockOpenTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	var row transactionRow
	err := t.collectOne(ctx,
		qb.Select(transactionColumns...).
			From(transactionsTableName+" t").
			Where(sq.Eq{"t.id": id, "t.return_date": nil}).
			Suffix("FOR UPDATE"),
		func(rows pgx.Rows) (err error) {
			row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[transactionRow])
			return err
		})
	if err != nil {
		return model.Transaction{}, err
	}
	return row.toModel(), nil
}

func (t *pgTx) CreateTransaction(ctx context.Context, txn model.Transaction) (model.Transaction, error) {
	q := `
insert into transactions (user_id, book_id, issue_date, due_date, status, calculated_fine, fine_paid, remarks)
values (@user_id, @book_id, @issue_date, @due_date, @status, 0, 0, @remarks)
returning id`
	args := pgx.NamedArgs{
		"user_id":    txn.UserID,
		"book_id":    txn.BookID,
		"issue_date": txn.IssueDate.Time,
		"due_date":   txn.DueDate.Time,
		"status":     string(txn.Status),
		"remarks":    nullableString(txn.Remarks),
	}
	if err := t.tx.QueryRow(ctx, q, args).Scan(&txn.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == openBookIndexName {
			return model.Transaction{}, errs.ErrBookUnavailable
		}
		return model.Transaction{}, errors.Wrap(err, "CreateTransaction")
	}
	return txn, nil
}

func (t *pgTx) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	q := `
update transactions
    set status = @status,
        pending_return_date = @pending_return_date,
        return_date = @return_date,
        calculated_fine = @calculated_fine,
        fine_paid = @fine_paid,
        remarks = @remarks
where id = @id`
	args := pgx.NamedArgs{
		"id":                  txn.ID,
		"status":              string(txn.Status),
		"pending_return_date": timePtr(txn.PendingReturnDate),
		"return_date":         timePtr(txn.ReturnDate),
		"calculated_fine":     txn.CalculatedFine,
		"fine_paid":           txn.FinePaid,
		"remarks":             nullableString(txn.Remarks),
	}
	tag, err := t.tx.Exec(ctx, q, args)
	if err != nil {
		return errors.Wrap(err, "UpdateTransaction")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (t *pgTx) SetBookAvailable(ctx context.Context, bookID int64, available bool) (bool, error) {
	q := `
update books
    set available = @available
where id = @book_id and available <> @available`
	args := pgx.NamedArgs{
		"book_id":   bookID,
		"available": available,
	}
	tag, err := t.tx.Exec(ctx, q, args)
	if err != nil {
		return false, errors.Wrap(err, "SetBookAvailable")
	}
	return tag.RowsAffected() == 1, nil
}
