package repository

import (
	"context"

	"jobboard/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// CompanyRepository manages company profiles.
type CompanyRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, company *domain.Company) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Company, error)
}

// CandidateRepository manages candidate profiles.
type CandidateRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, candidate *domain.Candidate) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Candidate, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Candidate, error)
}

// AccountRepository creates a user together with its profile in one transaction.
type AccountRepository interface {
	CreateCompanyAccount(ctx context.Context, user *domain.User, company *domain.Company) error
	CreateCandidateAccount(ctx context.Context, user *domain.User, candidate *domain.Candidate) error
}
