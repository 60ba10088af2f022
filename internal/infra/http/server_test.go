package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zopsm/internal/auth"
	"zopsm/internal/auth/policy"
	"zopsm/internal/auth/token"
	"zopsm/internal/config"
	"zopsm/internal/domain"
	"zopsm/internal/infra/tokenstore"
	"zopsm/internal/usecase"
)

// stubProjects is just enough repository for the project routes.
type stubProjects struct {
	projects  map[string]domain.Project
	createErr error
}

func (s *stubProjects) Create(_ context.Context, p domain.Project) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.projects[p.ID] = p
	return nil
}

func (s *stubProjects) GetByID(_ context.Context, accountID, id string) (domain.Project, error) {
	p, ok := s.projects[id]
	if !ok || p.AccountID != accountID {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubProjects) List(_ context.Context, accountID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range s.projects {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProjects) Update(_ context.Context, p domain.Project) error {
	if _, ok := s.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.projects[p.ID] = p
	return nil
}

func (s *stubProjects) Delete(_ context.Context, accountID, id string) error {
	p, ok := s.projects[id]
	if !ok || p.AccountID != accountID {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

type stubServices struct{}

func (stubServices) Create(context.Context, domain.Service) error { return nil }
func (stubServices) GetByCode(context.Context, string, string, string) (domain.Service, error) {
	return domain.Service{}, domain.ErrNotFound
}
func (stubServices) ListByProject(context.Context, string, string) ([]domain.Service, error) {
	return nil, nil
}
func (stubServices) ConsumeItem(context.Context, string, string, string) (bool, error) {
	return false, domain.ErrNotFound
}
func (stubServices) Delete(context.Context, string, string, string) error { return nil }

type serverFixture struct {
	srv      *Server
	codec    *token.Codec
	store    *tokenstore.MemoryUserTokens
	projects *stubProjects
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec("server-test-secret", time.Hour, 10*time.Minute)
	store := tokenstore.NewMemoryUserTokens()
	registry := policy.NewRegistry()
	projects := &stubProjects{projects: make(map[string]domain.Project)}

	srv := NewServer(config.Config{}, ServerDeps{
		Registry: registry,
		Gate:     auth.NewGate(registry, codec, store),
		Projects: usecase.NewProjectService(projects, stubServices{}, tokenstore.NewMemoryConsumerTokens(), zap.NewNop(), 10),
		Logger:   zap.NewNop(),
	})
	return &serverFixture{srv: srv, codec: codec, store: store, projects: projects}
}

func (f *serverFixture) login(t *testing.T, role domain.Role) string {
	t.Helper()
	subject := "user-" + role.String()
	signed, err := f.codec.Encode(domain.Principal{Subject: subject, Role: role, AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.store.Add(context.Background(), subject, signed); err != nil {
		t.Fatalf("store: %v", err)
	}
	return signed
}

func (f *serverFixture) do(t *testing.T, method, path, authToken, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestPreflightAdmittedWithoutToken(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodOptions, "/api/v1/projects", "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPreflightIgnoresGarbageToken(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodOptions, "/api/v1/projects/p1/services", "not-a-token", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequestWithoutToken(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/projects", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if decodeError(t, w).Error != "you can not access this resource" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRequestWithDisallowedRole(t *testing.T) {
	f := newServerFixture(t)
	billing := f.login(t, domain.RoleBilling)

	w := f.do(t, http.MethodGet, "/api/v1/projects", billing, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	// The rejection reads exactly like the missing-token one.
	if decodeError(t, w).Error != "you can not access this resource" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestRequestWithRevokedToken(t *testing.T) {
	f := newServerFixture(t)
	dev := f.login(t, domain.RoleDeveloper)
	if err := f.store.RemoveAll(context.Background(), "user-developer"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/projects", dev, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStoreOutageIsServerError(t *testing.T) {
	f := newServerFixture(t)
	dev := f.login(t, domain.RoleDeveloper)
	f.store.FailNext = errors.New("connection refused")

	w := f.do(t, http.MethodGet, "/api/v1/projects", dev, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if decodeError(t, w).Error != "internal error" {
		t.Fatalf("outage detail leaked: %q", w.Body.String())
	}
}

func TestListProjectsAsDeveloper(t *testing.T) {
	f := newServerFixture(t)
	dev := f.login(t, domain.RoleDeveloper)
	f.projects.projects["p1"] = domain.Project{ID: "p1", AccountID: "acc-1", Name: "alpha"}

	w := f.do(t, http.MethodGet, "/api/v1/projects", dev, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Projects []projectResponse `json:"projects"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Projects) != 1 || resp.Projects[0].Name != "alpha" {
		t.Fatalf("unexpected projects %+v", resp.Projects)
	}
}

func TestCreateProjectOverQuota(t *testing.T) {
	f := newServerFixture(t)
	admin := f.login(t, domain.RoleAdmin)
	f.projects.createErr = domain.ErrLimitExceeded

	w := f.do(t, http.MethodPost, "/api/v1/projects", admin, `{"name":"alpha"}`)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}
	if decodeError(t, w).Error != "please check your plan limits" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestProjectsScopedToPrincipalAccount(t *testing.T) {
	f := newServerFixture(t)
	dev := f.login(t, domain.RoleDeveloper)
	f.projects.projects["p1"] = domain.Project{ID: "p1", AccountID: "acc-other", Name: "foreign"}

	w := f.do(t, http.MethodGet, "/api/v1/projects/p1", dev, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
