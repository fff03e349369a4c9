package domain

import "time"

// User represents an authenticated user of the system. Email is the login identifier.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsCompany    bool
	IsCandidate  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Company is the employer profile attached to a User.
type Company struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// Candidate is the job seeker profile attached to a User.
type Candidate struct {
	ID            int64
	UserID        int64
	LastEducation Education
	Experience    string
	CreatedAt     time.Time
}

// Account bundles a user with whichever profiles it owns.
type Account struct {
	User      User
	Company   *Company
	Candidate *Candidate
}

func (a *Account) IsCompany() bool {
	return a != nil && a.Company != nil
}

func (a *Account) IsCandidate() bool {
	return a != nil && a.Candidate != nil
}

// Role names the profile an account acts as. Accounts without a profile have no role.
func (a *Account) Role() string {
	switch {
	case a.IsCompany():
		return "company"
	case a.IsCandidate():
		return "candidate"
	default:
		return ""
	}
}
