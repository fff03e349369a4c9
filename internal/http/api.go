package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/exporter"
	"jobboard/internal/service"
	"jobboard/internal/storage"
)

// Deps bundles everything the HTTP layer talks to. Exporter and Storage are optional.
type Deps struct {
	Accounts     service.AccountService
	Jobs         service.JobService
	Applications service.ApplicationService
	Reports      service.ReportService
	Exports      service.ExportService
	Exporter     exporter.Manager
	Storage      storage.Service
	Logger       *logrus.Logger
	CookieSecure bool
	CORSOrigins  []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts     service.AccountService
	jobs         service.JobService
	applications service.ApplicationService
	reports      service.ReportService
	exports      service.ExportService
	exporter     exporter.Manager
	storage      storage.Service
	logger       *logrus.Logger
	cookieSecure bool
	corsOrigins  []string
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts:     deps.Accounts,
		jobs:         deps.Jobs,
		applications: deps.Applications,
		reports:      deps.Reports,
		exports:      deps.Exports,
		exporter:     deps.Exporter,
		storage:      deps.Storage,
		logger:       logger,
		cookieSecure: deps.CookieSecure,
		corsOrigins:  deps.CORSOrigins,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(cors.New(h.corsConfig()))

	api := router.Group("/api")
	api.Use(h.optionalAuth())
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/signup/company", h.signUpCompany)
		api.POST("/signup/candidate", h.signUpCandidate)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)

		api.GET("/jobs", h.listJobs)
		api.GET("/jobs/:id", h.getJob)
	}

	authed := api.Group("")
	authed.Use(requireAuth())
	{
		authed.GET("/me", h.me)
		authed.DELETE("/me", h.deleteMe)

		authed.GET("/jobs/mine", h.myJobs)
		authed.GET("/jobs/:id/apply", h.applyForm)
		authed.POST("/jobs/:id/apply", h.apply)

		authed.GET("/reports", h.companyReport)
		authed.GET("/reports/data/jobs-per-month", h.jobsPerMonth)
		authed.GET("/reports/data/apps-per-month", h.appsPerMonth)
		authed.GET("/reports/data/candidates-per-month", h.candidatesPerMonth)
		authed.POST("/reports/exports", h.createExport)
		authed.GET("/reports/exports", h.listExports)
		authed.GET("/reports/exports/:id", h.getExport)
		authed.DELETE("/reports/exports/:id", h.deleteExport)
	}

	companies := authed.Group("")
	companies.Use(requireCompany())
	{
		companies.POST("/jobs", h.createJob)
		companies.PUT("/jobs/:id", h.updateJob)
		companies.DELETE("/jobs/:id", h.deleteJob)
	}
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.ExposeHeaders = []string{requestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	origins := h.corsOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// respondError maps domain errors onto HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": invalid.Fields})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrAlreadyApplied.Error()})
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrDuplicateProfile):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		requestLog(c, h.logger).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// pathID parses the :id parameter. Malformed ids are reported as missing resources.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := formatTime(*t)
	return &v
}
