package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
)

const (
	authCookieName  = "auth_token"
	requestIDHeader = "X-Request-ID"

	accountKey   = "account"
	requestIDKey = "request_id"
)

// requestLogger tags every request with an id and logs one line when it finishes.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := requestLog(c, logger).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func requestLog(c *gin.Context, logger *logrus.Logger) *logrus.Entry {
	return logger.WithField(requestIDKey, c.GetString(requestIDKey))
}

// optionalAuth loads the account behind a valid token and lets anonymous requests through.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		userID, err := h.accounts.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}
		account, err := h.accounts.Account(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}
		c.Set(accountKey, account)
		c.Next()
	}
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAccount(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func requireCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentAccount(c).IsCompany() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "company account required"})
			return
		}
		c.Next()
	}
}

// currentAccount returns the authenticated account or nil.
func currentAccount(c *gin.Context) *domain.Account {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil
	}
	account, _ := v.(*domain.Account)
	return account
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

func (h *Handler) setAuthCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", h.cookieSecure, true)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", h.cookieSecure, true)
}
