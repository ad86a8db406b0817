package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"

	"github.com/dtroode/library-server/internal/model"
)

var _ model.Store = (*Store)(nil)

// Store is the PostgreSQL model.Store. Writes go through the pgx pool,
// reports through sqlx.
type Store struct {
	conn    *Connection
	reports *ReportRepository
}

func NewStore(conn *Connection, reportDB *sqlx.DB) *Store {
	return &Store{
		conn:    conn,
		reports: NewReportRepository(reportDB),
	}
}

func (s *Store) Users() model.UserStore {
	return NewUserRepository(s.conn)
}

func (s *Store) Books() model.BookStore {
	return NewBookRepository(s.conn)
}

func (s *Store) Borrowings() model.BorrowingStore {
	return NewBorrowingRepository(s.conn)
}

func (s *Store) Reports() model.ReportStore {
	return s.reports
}

// InTx runs fn in a read-committed transaction. Row locks taken through
// GetForUpdate are held until commit or rollback.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos model.Repositories) error) (err error) {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, &txRepositories{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	return nil
}

type txRepositories struct {
	tx pgx.Tx
}

func (r *txRepositories) Users() model.UserStore {
	return NewUserRepository(r.tx)
}

func (r *txRepositories) Books() model.BookStore {
	return NewBookRepository(r.tx)
}

func (r *txRepositories) Borrowings() model.BorrowingStore {
	return NewBorrowingRepository(r.tx)
}
