package repository

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type memoryState struct {
	users        map[int64]model.User
	books        map[int64]model.Book
	memberships  map[int64]model.Membership
	transactions map[int64]model.Transaction
	nextTxnID    int64
}

func newMemoryState() memoryState {
	return memoryState{
		users:        make(map[int64]model.User),
		books:        make(map[int64]model.Book),
		memberships:  make(map[int64]model.Membership),
		transactions: make(map[int64]model.Transaction),
		nextTxnID:    1,
	}
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		users:        make(map[int64]model.User, len(s.users)),
		books:        make(map[int64]model.Book, len(s.books)),
		memberships:  make(map[int64]model.Membership, len(s.memberships)),
		transactions: make(map[int64]model.Transaction, len(s.transactions)),
		nextTxnID:    s.nextTxnID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	return c
}

// MemoryRepository keeps every entity in process memory. Units of work are
// serialized by one mutex and see a private copy of the state that replaces
// the live one only when the work succeeds.
type MemoryRepository struct {
	mu    sync.RWMutex
	state memoryState
	log   *zap.Logger
}

func NewMemoryRepository(log *zap.Logger) *MemoryRepository {
	return &MemoryRepository{
		state: newMemoryState(),
		log:   log.Named("repo"),
	}
}

// Seed is the on-disk shape accepted by LoadSeed.
type Seed struct {
	Users       []model.User       `json:"users"`
	Books       []model.Book       `json:"books"`
	Memberships []model.Membership `json:"memberships"`
}

func (r *MemoryRepository) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read seed")
	}
	var seed Seed
	if err = json.Unmarshal(raw, &seed); err != nil {
		return errors.Wrap(err, "decode seed")
	}
	for _, m := range seed.Memberships {
		r.PutMembership(m)
	}
	for _, u := range seed.Users {
		r.PutUser(u)
	}
	for _, b := range seed.Books {
		r.PutBook(b)
	}
	r.log.Info("seed loaded",
		zap.Int("users", len(seed.Users)),
		zap.Int("books", len(seed.Books)),
		zap.Int("memberships", len(seed.Memberships)))
	return nil
}

func (r *MemoryRepository) PutUser(u model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.users[u.ID] = u
}

func (r *MemoryRepository) PutBook(b model.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.books[b.ID] = b
}

func (r *MemoryRepository) PutMembership(m model.Membership) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.memberships[m.ID] = m
}

// PutTransaction stores t as is, bypassing the lifecycle rules.
func (r *MemoryRepository) PutTransaction(t model.Transaction) model.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.state.nextTxnID
	}
	if t.ID >= r.state.nextTxnID {
		r.state.nextTxnID = t.ID + 1
	}
	r.state.transactions[t.ID] = t
	return t
}

func (r *MemoryRepository) Book(id int64) (model.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.state.books[id]
	return b, ok
}

func (r *MemoryRepository) Transaction(id int64) (model.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.state.transactions[id]
	return t, ok
}

func (r *MemoryRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.state.clone()
	if err := fn(ctx, &memoryTx{state: &work}); err != nil {
		return err
	}
	r.state = work
	return nil
}

func (r *MemoryRepository) ListTransactions(_ context.Context, filter model.TransactionFilter) ([]model.TransactionView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]model.TransactionView, 0)
	for _, t := range r.state.transactions {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Open != nil && (t.ReturnDate == nil) != *filter.Open {
			continue
		}
		if filter.DueBefore != nil && !t.DueDate.Before(*filter.DueBefore) {
			continue
		}
		book, ok := r.state.books[t.BookID]
		if !ok {
			continue
		}
		user, ok := r.state.users[t.UserID]
		if !ok {
			continue
		}
		views = append(views, model.TransactionView{
			Transaction: t,
			BookTitle:   book.Title,
			BookAuthor:  book.Author,
			SerialNo:    book.SerialNo,
			Username:    user.Username,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (r *MemoryRepository) ListAvailableBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	books := make([]model.Book, 0)
	for _, b := range r.state.books {
		if !b.Available {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if filter.MediaType != "" && b.MediaType != filter.MediaType {
			continue
		}
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) GetUser(_ context.Context, id int64) (model.User, error) {
	u, ok := t.state.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (t *memoryTx) GetMembership(_ context.Context, id int64) (model.Membership, error) {
	m, ok := t.state.memberships[id]
	if !ok {
		return model.Membership{}, errs.ErrNotFound
	}
	return m, nil
}

func (t *memoryTx) LockBook(_ context.Context, id int64) (model.Book, error) {
	b, ok := t.state.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return b, nil
}

func (t *memoryTx) ListUserTransactions(_ context.Context, userID int64) ([]model.Transaction, error) {
	txns := make([]model.Transaction, 0)
	for _, txn := range t.state.transactions {
		if txn.UserID == userID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
	return txns, nil
}

func (t *memoryTx) LockOpenTransaction(_ context.Context, id int64) (model.Transaction, error) {
	txn, ok := t.state.transactions[id]
	if !ok || txn.ReturnDate != nil {
		return model.Transaction{}, errs.ErrNotFound
	}
	return txn, nil
}

func (t *memoryTx) CreateTransaction(_ context.Context, txn model.Transaction) (model.Transaction, error) {
	if _, ok := t.state.users[txn.UserID]; !ok {
		return model.Transaction{}, errors.Errorf("user %d does not exist", txn.UserID)
	}
	if _, ok := t.state.books[txn.BookID]; !ok {
		return model.Transaction{}, errors.Errorf("book %d does not exist", txn.BookID)
	}
	for _, other := range t.state.transactions {
		if other.BookID == txn.BookID && other.ReturnDate == nil {
			return model.Transaction{}, errs.ErrBookUnavailable
		}
	}
	if err := txn.Validate(); err != nil {
		return model.Transaction{}, err
	}
	txn.ID = t.state.nextTxnID
	t.state.nextTxnID++
	t.state.transactions[txn.ID] = txn
	return txn, nil
}

func (t *memoryTx) UpdateTransaction(_ context.Context, txn model.Transaction) error {
	if _, ok := t.state.transactions[txn.ID]; !ok {
		return errs.ErrNotFound
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	t.state.transactions[txn.ID] = txn
	return nil
}

func (t *memoryTx) SetBookAvailable(_ context.Context, bookID int64, available bool) (bool, error) {
	b, ok := t.state.books[bookID]
	if !ok || b.Available == available {
		return false, nil
	}
	b.Available = available
	t.state.books[bookID] = b
	return true, nil
}
