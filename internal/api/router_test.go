package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/api/handler"
	"github.com/traymate/backend/internal/core/domain"
	"github.com/traymate/backend/internal/core/ports"
	"github.com/traymate/backend/internal/core/service"
	"github.com/traymate/backend/internal/infrastructure/security"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*domain.User{}} }

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *memUsers) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	m.seq++
	cp := *u
	cp.ID = fmt.Sprintf("u%d", m.seq)
	m.users[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.users {
		if u.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type nopAudit struct{}

func (nopAudit) Record(domain.AuditEvent) {}

type emptyResidents struct{}

func (emptyResidents) CreateResident(context.Context, ports.CreateResidentInput) (*ports.CreateResidentResult, error) {
	return &ports.CreateResidentResult{Resident: &domain.Resident{ID: "r1"}}, nil
}
func (emptyResidents) UpdateResident(context.Context, string, ports.UpdateResidentInput) (*domain.Resident, error) {
	return nil, domain.ErrResidentNotFound
}
func (emptyResidents) ListResidents(context.Context) ([]ports.ResidentCard, error) { return nil, nil }
func (emptyResidents) AssignCaregiver(context.Context, string, *string) (*domain.Resident, error) {
	return nil, domain.ErrResidentNotFound
}
func (emptyResidents) ResidentsForCaregiver(context.Context) ([]*domain.Resident, error) {
	return nil, nil
}

type emptyStaff struct{}

func (emptyStaff) ListByRole(context.Context, domain.Role) ([]ports.StaffMember, error) {
	return nil, nil
}
func (emptyStaff) DeleteEntity(context.Context, string, string) error { return nil }

type routerFixture struct {
	e     *echo.Echo
	users *memUsers
	codec *security.JWTCodec
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	codec, err := security.NewJWTCodec("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	hasher := security.NewBcryptHasher(4)
	users := newMemUsers()

	if _, err := service.SeedUsers(context.Background(), users, hasher, service.DefaultSeedAccounts, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e := NewRouter(RouterDeps{
		Logger:       zerolog.Nop(),
		Codec:        codec,
		Users:        users,
		Auth:         service.NewAuthService(users, hasher, codec, nopAudit{}, "", zerolog.Nop()),
		Residents:    emptyResidents{},
		Staff:        emptyStaff{},
		HealthChecks: map[string]handler.HealthCheck{},
	})
	return &routerFixture{e: e, users: users, codec: codec}
}

func (f *routerFixture) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/auth/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Token
}

func TestRouter_LoginThenMe(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t, "Admin@Traymate.com", "admin123")

	rec := f.do(http.MethodGet, "/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if me["email"] != "admin@traymate.com" || me["role"] != "ROLE_ADMIN" {
		t.Fatalf("unexpected identity: %+v", me)
	}
}

func TestRouter_LoginFailuresLookIdentical(t *testing.T) {
	f := newRouterFixture(t)

	wrongPassword := f.do(http.MethodPost, "/auth/login", "", `{"email":"admin@traymate.com","password":"nope"}`)
	unknownEmail := f.do(http.MethodPost, "/auth/login", "", `{"email":"ghost@traymate.com","password":"nope"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestRouter_CaregiverOnAdminAreaIsForbidden(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t, "caregiver@traymate.com", "care123")

	if rec := f.do(http.MethodGet, "/admin/residents", token, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/caregiver/residents", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on own area, got %d", rec.Code)
	}
}

func TestRouter_NoHeaderIsUnauthenticated(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/admin/residents", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "authentication required") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestRouter_ExpiredTokenIsUnauthenticated(t *testing.T) {
	f := newRouterFixture(t)
	expired, err := f.codec.Issue("admin@traymate.com", nil, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := f.do(http.MethodGet, "/admin/residents", expired, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_DeletedUserTokenIsAnonymous(t *testing.T) {
	f := newRouterFixture(t)
	token := f.login(t, "admin@traymate.com", "admin123")

	admin, err := f.users.FindByEmail(context.Background(), "admin@traymate.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := f.users.Delete(context.Background(), admin.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if rec := f.do(http.MethodGet, "/admin/residents", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a token of a deleted user, got %d", rec.Code)
	}
}

func TestRouter_RegisterRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"fullName":"Kim Kitchen","email":"kim@traymate.com","password":"pw","role":"ROLE_KITCHEN_STAFF"}`

	if rec := f.do(http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	caregiver := f.login(t, "caregiver@traymate.com", "care123")
	if rec := f.do(http.MethodPost, "/auth/register", caregiver, body); rec.Code != http.StatusForbidden {
		t.Fatalf("caregiver: expected 403, got %d", rec.Code)
	}

	admin := f.login(t, "admin@traymate.com", "admin123")
	rec := f.do(http.MethodPost, "/auth/register", admin, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodPost, "/auth/register", admin, body); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rec.Code)
	}

	badDomain := `{"fullName":"","email":"kim@gmail.com","password":"","role":"nonsense"}`
	if rec := f.do(http.MethodPost, "/auth/register", admin, badDomain); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad domain: expected 400, got %d", rec.Code)
	}

	longPassword := `{"fullName":"Lee Long","email":"lee@traymate.com","password":"` + strings.Repeat("x", 73) + `","role":"ROLE_CAREGIVER"}`
	if rec := f.do(http.MethodPost, "/auth/register", admin, longPassword); rec.Code != http.StatusBadRequest {
		t.Fatalf("73-byte password: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("root: expected 200, got %d", rec.Code)
	}
	if _, err := uuid.Parse(rec.Header().Get(echo.HeaderXRequestID)); err != nil {
		t.Fatalf("expected a UUID request id, got %q", rec.Header().Get(echo.HeaderXRequestID))
	}
	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
}

func TestRouter_PreflightIsPublic(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/admin/residents", nil)
	req.Header.Set(echo.HeaderOrigin, "https://tablet.traymate.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) == "" {
		t.Fatal("expected CORS headers on preflight")
	}
}
