package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/exporter"
	apphttp "jobboard/internal/http"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/service"
	"jobboard/internal/storage"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithStorage(t, nil)
}

// newTestServerWithStorage wires an object store into both the exporter and the handler.
func newTestServerWithStorage(t *testing.T, store storage.Service) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "http.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	companies := sqlite.NewCompanyRepository(db)
	candidates := sqlite.NewCandidateRepository(db)
	jobs := sqlite.NewJobRepository(db)
	apps := sqlite.NewApplicationRepository(db)
	exportRepo := sqlite.NewExportRepository(db)
	if err := sqlite.InitAll(context.Background(), users, companies, candidates, jobs, apps, exportRepo); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	exports := service.NewExportService(exportRepo)
	reports := service.NewReportService(sqlite.NewReportRepository(db))
	manager := exporter.NewManager(exporter.Config{
		DataDir:       filepath.Join(dir, "exports"),
		UploadOptions: storage.UploadOptions{Bucket: "reports", KeyPrefix: "exports"},
		Logger:        logger,
	}, exports, reports, store)
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start exporter: %v", err)
	}

	handler := apphttp.NewHandler(apphttp.Deps{
		Accounts: service.NewAccountService(users, companies, candidates, sqlite.NewAccountRepository(db), service.AccountConfig{
			JWTSecret:  testJWTSecret,
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		}),
		Jobs:         service.NewJobService(jobs, apps),
		Applications: service.NewApplicationService(jobs, apps),
		Reports:      reports,
		Exports:      exports,
		Exporter:     manager,
		Storage:      store,
		Logger:       logger,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Cleanup(manager.Shutdown)
	return srv
}

// client is a cookie-keeping API client that does not follow redirects.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &client{
		t:    t,
		base: srv.URL,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.body, v); err != nil {
		t.Fatalf("decode %s: %v", r.body, err)
	}
}

func (c *client) do(method, path string, body any, headers ...string) response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return response{status: resp.StatusCode, header: resp.Header, body: data}
}

func (c *client) expect(method, path string, body any, status int) response {
	c.t.Helper()
	resp := c.do(method, path, body)
	if resp.status != status {
		c.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, resp.status, resp.body)
	}
	return resp
}

const password = "StrongPass!123"

func signUpCompany(t *testing.T, srv *httptest.Server, email, name string) *client {
	t.Helper()
	c := newClient(t, srv)
	c.expect(http.MethodPost, "/api/signup/company", map[string]any{
		"email": email, "password": password, "password2": password, "name": name,
	}, http.StatusCreated)
	return c
}

func signUpCandidate(t *testing.T, srv *httptest.Server, email string, education int) *client {
	t.Helper()
	c := newClient(t, srv)
	c.expect(http.MethodPost, "/api/signup/candidate", map[string]any{
		"email": email, "password": password, "password2": password,
		"last_education": education, "experience": "Warehouse work",
	}, http.StatusCreated)
	return c
}

type jobJSON struct {
	ID           int64  `json:"id"`
	CompanyName  string `json:"company_name"`
	Title        string `json:"title"`
	SalaryBand   int    `json:"salary_band"`
	MinEducation int    `json:"min_education"`
	AppCount     int    `json:"app_count"`
}

func createJob(t *testing.T, c *client, title string, band, minEducation int) jobJSON {
	t.Helper()
	resp := c.expect(http.MethodPost, "/api/jobs", map[string]any{
		"title": title, "salary_band": band, "requirements": "Reliable", "min_education": minEducation,
	}, http.StatusCreated)
	var job jobJSON
	resp.decode(t, &job)
	return job
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp := c.do(http.MethodGet, "/api/health", nil, "X-Request-ID", "req-123")
	if resp.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.status)
	}
	if got := resp.header.Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	resp = c.do(http.MethodGet, "/api/health", nil)
	if resp.header.Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}
}
