package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobsToResponse(jobs))
}

// myJobs lists the caller's postings; accounts without a company see an empty list.
func (h *Handler) myJobs(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		c.JSON(http.StatusOK, []JobResponse{})
		return
	}
	jobs, err := h.jobs.ListForCompany(c.Request.Context(), account.Company.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobsToResponse(jobs))
}

func (h *Handler) createJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), currentAccount(c).Company.ID, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobToResponse(*job))
}

func (h *Handler) getJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.jobs.Detail(c.Request.Context(), id, currentAccount(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detailToResponse(detail))
}

func (h *Handler) updateJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.jobs.Update(c.Request.Context(), currentAccount(c).Company.ID, id, req.input())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToResponse(*job))
}

func (h *Handler) deleteJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), currentAccount(c).Company.ID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// applyForm returns the prefilled application for the job.
func (h *Handler) applyForm(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCandidate() {
		notFound(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	in, err := h.applications.Prefill(c.Request.Context(), id, account.Candidate)
	if errors.Is(err, domain.ErrAlreadyApplied) {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/api/jobs/%d", id))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ApplyFormResponse{
		Job:                    jobToResponse(*job),
		CandidateLastEducation: int(in.LastEducation),
		CandidateExperience:    in.Experience,
	})
}

func (h *Handler) apply(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCandidate() {
		notFound(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.SalaryExpectation == nil {
		v := domain.NewValidationError()
		v.Add("salary_expectation", "This field is required.")
		h.respondError(c, v)
		return
	}

	in := service.ApplicationInput{
		SalaryExpectation: *req.SalaryExpectation,
		LastEducation:     account.Candidate.LastEducation,
		Experience:        account.Candidate.Experience,
	}
	if req.CandidateLastEducation != nil {
		in.LastEducation = domain.Education(*req.CandidateLastEducation)
	}
	if req.CandidateExperience != nil {
		in.Experience = *req.CandidateExperience
	}

	app, err := h.applications.Apply(c.Request.Context(), id, account.Candidate, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	app.CandidateEmail = account.User.Email
	c.JSON(http.StatusCreated, applicationToResponse(*app))
}
