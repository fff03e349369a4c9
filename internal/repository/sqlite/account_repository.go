package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

// AccountRepository writes a user and its profile atomically.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) CreateCompanyAccount(ctx context.Context, user *domain.User, company *domain.Company) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		user.IsCompany = true
		if _, err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		company.UserID = user.ID
		_, err := insertCompany(ctx, tx, company)
		return err
	})
	if err != nil {
		user.ID, company.ID, company.UserID = 0, 0, 0
	}
	return err
}

func (r *AccountRepository) CreateCandidateAccount(ctx context.Context, user *domain.User, candidate *domain.Candidate) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		user.IsCandidate = true
		if _, err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		candidate.UserID = user.ID
		_, err := insertCandidate(ctx, tx, candidate)
		return err
	})
	if err != nil {
		user.ID, candidate.ID, candidate.UserID = 0, 0, 0
	}
	return err
}

func (r *AccountRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account: %w", err)
	}
	return nil
}
