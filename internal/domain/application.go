package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxScore is the best possible fit between an application and a job.
const MaxScore = 2

// Application is a candidate's submission to a job. Education and experience are
// snapshotted from the candidate profile at apply time.
type Application struct {
	ID                     int64
	JobID                  int64
	CandidateID            int64
	SalaryExpectation      decimal.Decimal
	CandidateLastEducation Education
	CandidateExperience    string
	Score                  int
	CreatedAt              time.Time

	CandidateEmail string
}

// Score rates how well an application matches a job: one point when the salary
// expectation fits the job's band, one point when the snapshotted education meets
// the job's minimum.
func Score(salary decimal.Decimal, education Education, band SalaryBand, minEducation Education) int {
	score := 0
	if band.Fits(salary) {
		score++
	}
	if education.AtLeast(minEducation) {
		score++
	}
	return score
}

// Rescore recomputes the application's score against the given job.
func (a *Application) Rescore(job *Job) {
	a.Score = Score(a.SalaryExpectation, a.CandidateLastEducation, job.SalaryBand, job.MinEducation)
}
