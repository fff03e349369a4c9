package http

import (
	"github.com/shopspring/decimal"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

type companySignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Name      string `json:"name"`
}

type candidateSignUpRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Password2     string `json:"password2"`
	LastEducation int    `json:"last_education"`
	Experience    string `json:"experience"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type jobRequest struct {
	Title        string `json:"title"`
	SalaryBand   int    `json:"salary_band"`
	Requirements string `json:"requirements"`
	MinEducation int    `json:"min_education"`
}

func (r jobRequest) input() service.JobInput {
	return service.JobInput{
		Title:        r.Title,
		SalaryBand:   domain.SalaryBand(r.SalaryBand),
		Requirements: r.Requirements,
		MinEducation: domain.Education(r.MinEducation),
	}
}

// applyRequest fields left out fall back to the candidate profile, except the salary.
type applyRequest struct {
	SalaryExpectation      *decimal.Decimal `json:"salary_expectation"`
	CandidateLastEducation *int             `json:"candidate_last_education"`
	CandidateExperience    *string          `json:"candidate_experience"`
}

type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CandidateResponse struct {
	ID                 int64  `json:"id"`
	LastEducation      int    `json:"last_education"`
	LastEducationLabel string `json:"last_education_label"`
	Experience         string `json:"experience"`
}

type AccountResponse struct {
	ID        int64              `json:"id"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	Company   *CompanyResponse   `json:"company,omitempty"`
	Candidate *CandidateResponse `json:"candidate,omitempty"`
	CreatedAt string             `json:"created_at"`
}

type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

type JobResponse struct {
	ID                int64  `json:"id"`
	CompanyID         int64  `json:"company_id"`
	CompanyName       string `json:"company_name"`
	Title             string `json:"title"`
	SalaryBand        int    `json:"salary_band"`
	SalaryBandLabel   string `json:"salary_band_label"`
	Requirements      string `json:"requirements"`
	MinEducation      int    `json:"min_education"`
	MinEducationLabel string `json:"min_education_label"`
	AppCount          int    `json:"app_count"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type JobDetailResponse struct {
	JobResponse
	IsOwner      bool                   `json:"is_owner"`
	Applications *[]ApplicationResponse `json:"applications,omitempty"`
	HasApplied   *bool                  `json:"has_applied,omitempty"`
}

type ApplicationResponse struct {
	ID                          int64  `json:"id"`
	JobID                       int64  `json:"job_id"`
	CandidateID                 int64  `json:"candidate_id"`
	CandidateEmail              string `json:"candidate_email,omitempty"`
	SalaryExpectation           string `json:"salary_expectation"`
	CandidateLastEducation      int    `json:"candidate_last_education"`
	CandidateLastEducationLabel string `json:"candidate_last_education_label"`
	CandidateExperience         string `json:"candidate_experience"`
	Score                       int    `json:"score"`
	CreatedAt                   string `json:"created_at"`
}

type ApplyFormResponse struct {
	Job                    JobResponse `json:"job"`
	CandidateLastEducation int         `json:"candidate_last_education"`
	CandidateExperience    string      `json:"candidate_experience"`
}

type ExportResponse struct {
	ID           int64                `json:"id"`
	Status       string               `json:"status"`
	Location     string               `json:"location,omitempty"`
	DownloadURL  string               `json:"download_url,omitempty"`
	Files        []ExportFileResponse `json:"files,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
	CompletedAt  *string              `json:"completed_at,omitempty"`
}

type ExportFileResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

func accountToResponse(account *domain.Account) AccountResponse {
	resp := AccountResponse{
		ID:        account.User.ID,
		Email:     account.User.Email,
		Role:      account.Role(),
		CreatedAt: formatTime(account.User.CreatedAt),
	}
	if account.Company != nil {
		resp.Company = &CompanyResponse{ID: account.Company.ID, Name: account.Company.Name}
	}
	if account.Candidate != nil {
		resp.Candidate = &CandidateResponse{
			ID:                 account.Candidate.ID,
			LastEducation:      int(account.Candidate.LastEducation),
			LastEducationLabel: account.Candidate.LastEducation.String(),
			Experience:         account.Candidate.Experience,
		}
	}
	return resp
}

func jobToResponse(job domain.Job) JobResponse {
	return JobResponse{
		ID:                job.ID,
		CompanyID:         job.CompanyID,
		CompanyName:       job.CompanyName,
		Title:             job.Title,
		SalaryBand:        int(job.SalaryBand),
		SalaryBandLabel:   job.SalaryBand.String(),
		Requirements:      job.Requirements,
		MinEducation:      int(job.MinEducation),
		MinEducationLabel: job.MinEducation.String(),
		AppCount:          job.ApplicationCount,
		CreatedAt:         formatTime(job.CreatedAt),
		UpdatedAt:         formatTime(job.UpdatedAt),
	}
}

func jobsToResponse(jobs []domain.Job) []JobResponse {
	resp := make([]JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = jobToResponse(jobs[i])
	}
	return resp
}

func detailToResponse(detail *service.JobDetail) JobDetailResponse {
	resp := JobDetailResponse{
		JobResponse: jobToResponse(detail.Job),
		IsOwner:     detail.IsOwner,
		HasApplied:  detail.HasApplied,
	}
	if detail.IsOwner {
		apps := make([]ApplicationResponse, len(detail.Applications))
		for i := range detail.Applications {
			apps[i] = applicationToResponse(detail.Applications[i])
		}
		resp.Applications = &apps
	}
	return resp
}

func applicationToResponse(app domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                          app.ID,
		JobID:                       app.JobID,
		CandidateID:                 app.CandidateID,
		CandidateEmail:              app.CandidateEmail,
		SalaryExpectation:           app.SalaryExpectation.StringFixed(2),
		CandidateLastEducation:      int(app.CandidateLastEducation),
		CandidateLastEducationLabel: app.CandidateLastEducation.String(),
		CandidateExperience:         app.CandidateExperience,
		Score:                       app.Score,
		CreatedAt:                   formatTime(app.CreatedAt),
	}
}

func exportToResponse(export domain.ReportExport) ExportResponse {
	return ExportResponse{
		ID:           export.ID,
		Status:       string(export.Status),
		Location:     export.Location,
		ErrorMessage: export.ErrorMessage,
		CreatedAt:    formatTime(export.CreatedAt),
		UpdatedAt:    formatTime(export.UpdatedAt),
		CompletedAt:  formatTimePtr(export.CompletedAt),
	}
}
