package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const maxNameLength = 255

// CompanySignUp is the input of the company registration form.
type CompanySignUp struct {
	Email     string
	Password  string
	Password2 string
	Name      string
}

// CandidateSignUp is the input of the candidate registration form.
type CandidateSignUp struct {
	Email         string
	Password      string
	Password2     string
	LastEducation domain.Education
	Experience    string
}

// AccountConfig carries the auth settings of the account service.
type AccountConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AccountService describes user lifecycle operations.
type AccountService interface {
	SignUpCompany(ctx context.Context, in CompanySignUp) (*domain.Account, error)
	SignUpCandidate(ctx context.Context, in CandidateSignUp) (*domain.Account, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Account, error)
	IssueToken(account *domain.Account) (string, time.Time, error)
	ParseToken(token string) (int64, error)
	Account(ctx context.Context, userID int64) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

type accountService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	candidates repository.CandidateRepository
	accounts   repository.AccountRepository
	validate   *validator.Validate
	cfg        AccountConfig
}

func NewAccountService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	candidates repository.CandidateRepository,
	accounts repository.AccountRepository,
	cfg AccountConfig,
) AccountService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &accountService{
		users:      users,
		companies:  companies,
		candidates: candidates,
		accounts:   accounts,
		validate:   validator.New(),
		cfg:        cfg,
	}
}

// tokenClaims is the JWT payload; the subject holds the user id.
type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (s *accountService) SignUpCompany(ctx context.Context, in CompanySignUp) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	v := s.validateCredentials(in.Email, in.Password, in.Password2)
	switch {
	case in.Name == "":
		v.Add("name", "This field is required.")
	case utf8.RuneCountInString(in.Name) > maxNameLength:
		v.Add("name", fmt.Sprintf("Ensure this value has at most %d characters.", maxNameLength))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: in.Email, PasswordHash: hash, IsActive: true}
	company := &domain.Company{Name: in.Name}
	if err := s.accounts.CreateCompanyAccount(ctx, user, company); err != nil {
		return nil, duplicateEmailAsValidation(err)
	}

	return &domain.Account{User: *sanitizeUser(user), Company: company}, nil
}

func (s *accountService) SignUpCandidate(ctx context.Context, in CandidateSignUp) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Experience = strings.TrimSpace(in.Experience)
	if in.LastEducation == 0 {
		in.LastEducation = domain.DefaultEducation
	}

	v := s.validateCredentials(in.Email, in.Password, in.Password2)
	if !in.LastEducation.Valid() {
		v.Add("last_education", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", int(in.LastEducation)))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: in.Email, PasswordHash: hash, IsActive: true}
	candidate := &domain.Candidate{LastEducation: in.LastEducation, Experience: in.Experience}
	if err := s.accounts.CreateCandidateAccount(ctx, user, candidate); err != nil {
		return nil, duplicateEmailAsValidation(err)
	}

	return &domain.Account{User: *sanitizeUser(user), Candidate: candidate}, nil
}

func (s *accountService) validateCredentials(email, password, password2 string) *domain.ValidationError {
	v := domain.NewValidationError()

	if email == "" {
		v.Add("email", "This field is required.")
	} else if err := s.validate.Var(email, "email,max=254"); err != nil {
		v.Add("email", "Enter a valid email address.")
	}

	if password == "" {
		v.Add("password", "This field is required.")
	}
	if password2 == "" {
		v.Add("password2", "This field is required.")
	}
	if password != "" && password2 != "" && password != password2 {
		v.Add("password2", "The two password fields didn't match.")
	}
	if password != "" {
		for _, problem := range passwordProblems(password, email) {
			v.Add("password", problem)
		}
	}
	return v
}

func (s *accountService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func duplicateEmailAsValidation(err error) error {
	if errors.Is(err, domain.ErrDuplicateEmail) {
		v := domain.NewValidationError()
		v.Add("email", "User with this email address already exists.")
		return v
	}
	return err
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.loadAccount(ctx, user)
}

func (s *accountService) IssueToken(account *domain.Account) (string, time.Time, error) {
	if s.cfg.JWTSecret == "" {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	now := time.Now()
	expires := now.Add(s.cfg.TokenTTL)
	claims := tokenClaims{
		Email: account.User.Email,
		Role:  account.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.User.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// ParseToken validates the token and returns the user id from its subject.
func (s *accountService) ParseToken(token string) (int64, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return 0, domain.ErrUnauthorized
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}

func (s *accountService) Account(ctx context.Context, userID int64) (*domain.Account, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return s.loadAccount(ctx, user)
}

func (s *accountService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

func (s *accountService) loadAccount(ctx context.Context, user *domain.User) (*domain.Account, error) {
	account := &domain.Account{User: *sanitizeUser(user)}

	company, err := s.companies.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		account.Company = company
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	candidate, err := s.candidates.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		account.Candidate = candidate
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	return account, nil
}

// normalizeEmail trims the address and lower-cases its domain part.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:          user.ID,
		Email:       user.Email,
		IsCompany:   user.IsCompany,
		IsCandidate: user.IsCandidate,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
