//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/migrations"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Run with a disposable database:
//
//	DB_HOST=localhost DB_PASSWORD=postgres DB_NAME=lending_test go test -tags integration ./lending/internal/repository/
func newPgRepository(t *testing.T) *repository {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST is not set")
	}
	var cfg postgres.DB
	require.NoError(t, envconfig.Process("", &cfg))

	ctx := context.Background()
	pool, err := postgres.NewPostgresDB(ctx, &cfg, migrations.MigrationFiles)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, q := range []string{
		`truncate transactions, books, users, memberships restart identity cascade`,
		`insert into memberships (membership_number, name, membership_type, start_date, end_date)
		 values ('M-1', 'annual', '1y', '2024-01-01', '2024-12-31')`,
		`insert into users (username, name, role, membership_id) values ('alice', 'Alice', 'user', 1)`,
		`insert into books (title, author, serial_no) values ('Dune', 'Frank Herbert', 'B-001')`,
	} {
		_, err = pool.Exec(ctx, q)
		require.NoError(t, err)
	}

	repo, err := NewRepository(pool, zap.NewExample())
	require.NoError(t, err)
	return repo
}

func issueTx(day model.Date) model.Transaction {
	return model.NewTransaction(1, 1, day, day.AddDays(15), "")
}

func TestPgRepository_OpenTransactionPerBook(t *testing.T) {
	repo := newPgRepository(t)
	ctx := context.Background()
	day := model.NewDate(2024, time.March, 1)

	var created model.Transaction
	err := repo.RunInTx(ctx, func(ctx context.Context, tx Tx) (err error) {
		created, err = tx.CreateTransaction(ctx, issueTx(day))
		return err
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	err = repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.CreateTransaction(ctx, issueTx(day))
		return err
	})
	require.ErrorIs(t, err, errs.ErrBookUnavailable)

	err = repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		got, err := tx.LockOpenTransaction(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.DueDate, got.DueDate)

		if err = got.QuoteReturn(day.AddDays(15), model.DefaultPolicy()); err != nil {
			return err
		}
		if err = got.Settle(false, "", day.AddDays(15)); err != nil {
			return err
		}
		return tx.UpdateTransaction(ctx, got)
	})
	require.NoError(t, err)

	err = repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.LockOpenTransaction(ctx, created.ID)
		return err
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPgRepository_SetBookAvailableFlipsOnce(t *testing.T) {
	repo := newPgRepository(t)
	ctx := context.Background()

	var flips []bool
	err := repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		for _, available := range []bool{false, false, true, true} {
			flipped, err := tx.SetBookAvailable(ctx, 1, available)
			if err != nil {
				return err
			}
			flips = append(flips, flipped)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true, false}, flips)
}

func TestPgRepository_LockBookBlocksConcurrentWriter(t *testing.T) {
	repo := newPgRepository(t)
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
			if _, err := tx.LockBook(ctx, 1); err != nil {
				close(locked)
				return err
			}
			close(locked)
			<-release
			_, err := tx.SetBookAvailable(ctx, 1, false)
			return err
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	err := repo.RunInTx(waitCtx, func(ctx context.Context, tx Tx) error {
		_, err := tx.LockBook(ctx, 1)
		return err
	})
	require.Error(t, err)

	close(release)
	require.NoError(t, <-done)

	err = repo.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		book, err := tx.LockBook(ctx, 1)
		require.NoError(t, err)
		require.False(t, book.Available)
		return nil
	})
	require.NoError(t, err)
}
