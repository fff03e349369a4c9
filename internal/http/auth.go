package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
	"jobboard/internal/service"
)

// redirectIfLoggedIn sends already authenticated users to the job list.
func redirectIfLoggedIn(c *gin.Context) bool {
	if currentAccount(c) == nil {
		return false
	}
	c.Redirect(http.StatusSeeOther, "/api/jobs")
	return true
}

func (h *Handler) signUpCompany(c *gin.Context) {
	if redirectIfLoggedIn(c) {
		return
	}
	var req companySignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.SignUpCompany(c.Request.Context(), service.CompanySignUp{
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		Name:      req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, account)
}

func (h *Handler) signUpCandidate(c *gin.Context) {
	if redirectIfLoggedIn(c) {
		return
	}
	var req candidateSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.SignUpCandidate(c.Request.Context(), service.CandidateSignUp{
		Email:         req.Email,
		Password:      req.Password,
		Password2:     req.Password2,
		LastEducation: domain.Education(req.LastEducation),
		Experience:    req.Experience,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, account)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.startSession(c, http.StatusOK, account)
}

func (h *Handler) startSession(c *gin.Context, status int, account *domain.Account) {
	token, expires, err := h.accounts.IssueToken(account)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.setAuthCookie(c, token, expires)
	c.JSON(status, SessionResponse{
		Token:     token,
		ExpiresAt: formatTime(expires),
		Account:   accountToResponse(account),
	})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, accountToResponse(currentAccount(c)))
}

func (h *Handler) deleteMe(c *gin.Context) {
	account := currentAccount(c)
	if account.IsCompany() && h.exporter != nil {
		if err := h.exporter.PurgeCompany(c.Request.Context(), account.Company.ID); err != nil {
			h.respondError(c, err)
			return
		}
	}
	if err := h.accounts.DeleteAccount(c.Request.Context(), account.User.ID); err != nil {
		h.respondError(c, err)
		return
	}
	requestLog(c, h.logger).WithField("user_id", account.User.ID).Info("account deleted")
	h.clearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
