// Package seed fills a database with fake companies, candidates, jobs and
// applications for demos and load testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const DefaultPassword = "@T3star123"

const (
	jobAgeDays        = 365
	applicationLagMax = 30
	maxEmailAttempts  = 100
)

// salaryRanges are the bounds seeded salary expectations are drawn from.
var salaryRanges = map[domain.SalaryBand][2]float64{
	domain.SalaryBandUpTo1K:     {500, 1000},
	domain.SalaryBandFrom1KTo2K: {1000, 2000},
	domain.SalaryBandFrom2KTo3K: {2000, 3000},
	domain.SalaryBandAbove3K:    {3001, 8000},
}

type Config struct {
	Companies     int
	Candidates    int
	Jobs          int
	MaxAppsPerJob int
	Password      string
	// Seed makes runs reproducible; zero picks a random seed.
	Seed       uint64
	BcryptCost int
	Now        func() time.Time
}

func DefaultConfig() Config {
	return Config{
		Companies:     10,
		Candidates:    500,
		Jobs:          1000,
		MaxAppsPerJob: 10,
		Password:      DefaultPassword,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// Stores are the repositories the seeder writes through.
type Stores struct {
	Accounts     repository.AccountRepository
	Jobs         repository.JobRepository
	Applications repository.ApplicationRepository
}

// Result summarizes a run.
type Result struct {
	Companies    int
	Candidates   int
	Jobs         int
	Applications int
	LoginEmail   string
	Password     string
}

type Seeder struct {
	cfg    Config
	stores Stores
	fake   *gofakeit.Faker
	logger *logrus.Logger
	emails map[string]struct{}
}

func New(cfg Config, stores Stores, logger *logrus.Logger) *Seeder {
	if cfg.Password == "" {
		cfg.Password = DefaultPassword
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Seeder{
		cfg:    cfg,
		stores: stores,
		fake:   gofakeit.New(cfg.Seed),
		logger: logger,
		emails: make(map[string]struct{}),
	}
}

func (s *Seeder) validate() error {
	switch {
	case s.cfg.Companies <= 0:
		return errors.New("at least one company is required")
	case s.cfg.Candidates < 0, s.cfg.Jobs < 0, s.cfg.MaxAppsPerJob < 0:
		return errors.New("counts must not be negative")
	}
	return nil
}

func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	// every seeded user shares the password, so hash it once
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	companies, err := s.createCompanies(ctx, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.Infof("created %d companies", len(companies))

	candidates, err := s.createCandidates(ctx, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.Infof("created %d candidates", len(candidates))

	jobs, err := s.createJobs(ctx, companies)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("created %d jobs", len(jobs))

	apps, err := s.createApplications(ctx, jobs, candidates)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("created %d applications", apps)

	login := companies[s.fake.IntRange(0, len(companies)-1)]
	return &Result{
		Companies:    len(companies),
		Candidates:   len(candidates),
		Jobs:         len(jobs),
		Applications: apps,
		LoginEmail:   login.email,
		Password:     s.cfg.Password,
	}, nil
}

type seededCompany struct {
	company domain.Company
	email   string
}

func (s *Seeder) createCompanies(ctx context.Context, hash string) ([]seededCompany, error) {
	companies := make([]seededCompany, 0, s.cfg.Companies)
	for range s.cfg.Companies {
		email, err := s.uniqueEmail()
		if err != nil {
			return nil, err
		}
		user := &domain.User{Email: email, PasswordHash: hash, IsActive: true}
		company := &domain.Company{Name: s.fake.Company()}
		if err := s.stores.Accounts.CreateCompanyAccount(ctx, user, company); err != nil {
			return nil, fmt.Errorf("seed company %s: %w", email, err)
		}
		companies = append(companies, seededCompany{company: *company, email: email})
	}
	return companies, nil
}

func (s *Seeder) createCandidates(ctx context.Context, hash string) ([]domain.Candidate, error) {
	educations := domain.Educations()
	candidates := make([]domain.Candidate, 0, s.cfg.Candidates)
	for range s.cfg.Candidates {
		email, err := s.uniqueEmail()
		if err != nil {
			return nil, err
		}
		user := &domain.User{Email: email, PasswordHash: hash, IsActive: true}
		candidate := &domain.Candidate{
			LastEducation: educations[s.fake.IntRange(0, len(educations)-1)],
			Experience:    s.experience(),
		}
		if err := s.stores.Accounts.CreateCandidateAccount(ctx, user, candidate); err != nil {
			return nil, fmt.Errorf("seed candidate %s: %w", email, err)
		}
		candidates = append(candidates, *candidate)
	}
	return candidates, nil
}

func (s *Seeder) createJobs(ctx context.Context, companies []seededCompany) ([]domain.Job, error) {
	bands := domain.SalaryBands()
	educations := domain.Educations()
	now := s.cfg.Now().UTC()

	jobs := make([]domain.Job, 0, s.cfg.Jobs)
	for range s.cfg.Jobs {
		owner := companies[s.fake.IntRange(0, len(companies)-1)]
		job := &domain.Job{
			CompanyID:    owner.company.ID,
			Title:        s.fake.JobTitle(),
			SalaryBand:   bands[s.fake.IntRange(0, len(bands)-1)],
			Requirements: s.requirements(),
			MinEducation: educations[s.fake.IntRange(0, len(educations)-1)],
			CreatedAt:    now.AddDate(0, 0, -s.fake.IntRange(0, jobAgeDays)),
		}
		if _, err := s.stores.Jobs.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("seed job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// createApplications picks 1..MaxAppsPerJob distinct eligible candidates per job.
func (s *Seeder) createApplications(ctx context.Context, jobs []domain.Job, candidates []domain.Candidate) (int, error) {
	if s.cfg.MaxAppsPerJob == 0 {
		return 0, nil
	}

	total := 0
	for _, job := range jobs {
		var eligible []domain.Candidate
		for _, c := range candidates {
			if c.LastEducation.AtLeast(job.MinEducation) {
				eligible = append(eligible, c)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		n := min(s.fake.IntRange(1, s.cfg.MaxAppsPerJob), len(eligible))
		for i := range n {
			j := s.fake.IntRange(i, len(eligible)-1)
			eligible[i], eligible[j] = eligible[j], eligible[i]
			candidate := eligible[i]

			app := &domain.Application{
				JobID:                  job.ID,
				CandidateID:            candidate.ID,
				SalaryExpectation:      s.salary(job.SalaryBand),
				CandidateLastEducation: candidate.LastEducation,
				CandidateExperience:    candidate.Experience,
				CreatedAt:              job.CreatedAt.AddDate(0, 0, s.fake.IntRange(0, applicationLagMax)),
			}
			if _, err := s.stores.Applications.Create(ctx, app); err != nil {
				return total, fmt.Errorf("seed application for job %d: %w", job.ID, err)
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) salary(band domain.SalaryBand) decimal.Decimal {
	r := salaryRanges[band]
	return decimal.NewFromFloat(s.fake.Float64Range(r[0], r[1])).Round(2)
}

func (s *Seeder) uniqueEmail() (string, error) {
	for range maxEmailAttempts {
		email := strings.ToLower(s.fake.Email())
		if _, taken := s.emails[email]; !taken {
			s.emails[email] = struct{}{}
			return email, nil
		}
	}
	return "", errors.New("could not generate a unique email")
}

func (s *Seeder) experience() string {
	return fmt.Sprintf("%s %s at %s for %d years.",
		s.fake.JobLevel(), s.fake.JobTitle(), s.fake.Company(), s.fake.IntRange(1, 15))
}

func (s *Seeder) requirements() string {
	return fmt.Sprintf("%s %s experience, %s mindset.",
		s.fake.JobDescriptor(), s.fake.JobLevel(), s.fake.BuzzWord())
}
