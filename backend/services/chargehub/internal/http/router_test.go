package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"chargehub/backend/services/chargehub/internal/http/handlers"
	"chargehub/backend/services/chargehub/internal/http/middleware"
	"chargehub/backend/services/chargehub/internal/mapview"
	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/password"
	"chargehub/backend/services/chargehub/internal/repository"
	"chargehub/backend/services/chargehub/internal/service"
	"chargehub/backend/services/chargehub/internal/store"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = "user-" + u.Email
	copied := *u
	m.users[u.Email] = &copied
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type testServer struct {
	handler  http.Handler
	registry *store.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	registry := store.NewRegistry(func(_, userID string) *store.Store {
		return store.New(store.Offline{}, store.Options{UserID: userID, Logger: logger})
	}, nil, logger)

	auth := service.NewAuthService(
		&memoryUsers{users: make(map[string]*models.User)},
		password.NewBcryptHasher(bcrypt.MinCost),
		service.NewTokenService("secret", time.Hour),
		nil, registry, logger,
	)
	adapters, err := mapview.NewSet(mapview.Config{})
	if err != nil {
		t.Fatalf("adapters: %v", err)
	}

	router := NewRouter(RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(auth, logger),
		StationsHandlers: handlers.NewStationsHandlers(service.NewDirectoryService(logger), logger),
		MapHandlers:      handlers.NewMapHandlers(service.NewMapService(adapters, "light", logger), logger),
		HealthHandler:    handlers.NewHealthHandler(),
		LandingHandler:   handlers.NewLandingHandler(adapters.Names(), adapters.Default()),
		LiveHandler:      func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) },
		Authenticate:     middleware.AuthMiddleware(auth),
		Session:          middleware.SessionMiddleware(registry),
	})
	return &testServer{handler: router, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) signIn(t *testing.T) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "ada@example.com", "password": "Passw0rd", "confirm_password": "Passw0rd", "name": "Ada",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", rr.Code, rr.Body)
	}
	rr = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "Passw0rd"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rr.Code, rr.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return resp.Token
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	if rr := s.do(t, http.MethodGet, "/", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("landing: %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, "/health", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}
	rr := s.do(t, http.MethodGet, "/nowhere", "", nil)
	if rr.Code != http.StatusNotFound || !bytes.Contains(rr.Body.Bytes(), []byte(`"not found"`)) {
		t.Fatalf("unknown path: %d %s", rr.Code, rr.Body)
	}
	rr = s.do(t, http.MethodGet, "/api/auth/login", "", nil)
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("wrong method: %d allow=%q", rr.Code, rr.Header().Get("Allow"))
	}
	if rr := s.do(t, http.MethodGet, "/api/stations", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("stations without token: %d", rr.Code)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "ada@example.com", "password": "short", "confirm_password": "short",
	})
	if rr.Code != http.StatusBadRequest || !bytes.Contains(rr.Body.Bytes(), []byte(`"rules"`)) {
		t.Fatalf("expected 400 with rules, got %d %s", rr.Code, rr.Body)
	}
}

func TestStationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t)

	rr := s.do(t, http.MethodGet, "/api/stations?status=maintenance", token, nil)
	var page service.ListPage
	_ = json.Unmarshal(rr.Body.Bytes(), &page)
	if rr.Code != http.StatusOK || len(page.Stations) != 1 || page.Total != 6 {
		t.Fatalf("list: %d %s", rr.Code, rr.Body)
	}

	rr = s.do(t, http.MethodPost, "/api/stations", token, map[string]interface{}{"name": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: %d", rr.Code)
	}

	rr = s.do(t, http.MethodPost, "/api/stations", token, map[string]interface{}{
		"name": "Pier 39", "latitude": 37.8087, "longitude": -122.4098, "status": "Active", "power_output": 50, "connector_type": "CCS",
	})
	var created struct {
		Station models.Station `json:"station"`
		Outcome string         `json:"outcome"`
		Warning string         `json:"warning"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &created)
	if rr.Code != http.StatusCreated || created.Outcome != "local" || created.Warning == "" {
		t.Fatalf("create: %d %s", rr.Code, rr.Body)
	}

	path := "/api/stations/" + created.Station.ID
	rr = s.do(t, http.MethodPatch, path, token, map[string]interface{}{"status": "maintenance"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body)
	}
	rr = s.do(t, http.MethodGet, path, token, nil)
	var got models.Station
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.Status != models.StatusMaintenance {
		t.Fatalf("update not visible: %+v", got)
	}

	if rr := s.do(t, http.MethodDelete, path, token, nil); rr.Code != http.StatusOK {
		t.Fatalf("delete: %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, path, token, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rr.Code)
	}
	if rr := s.do(t, http.MethodPut, path, token, nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("put: %d", rr.Code)
	}
}

func TestMapEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t)

	rr := s.do(t, http.MethodGet, "/api/map?theme=dark", token, nil)
	var page service.MapPage
	_ = json.Unmarshal(rr.Body.Bytes(), &page)
	if rr.Code != http.StatusOK || page.Adapter != mapview.AdapterVirtual || page.Theme.Name != "dark" || len(page.Markers) != 6 {
		t.Fatalf("map page: %d %s", rr.Code, rr.Body)
	}

	if rr := s.do(t, http.MethodGet, "/api/map?adapter=hosted", token, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("hosted without token: %d", rr.Code)
	}

	rr = s.do(t, http.MethodPost, "/api/map/select", token, map[string]string{"station_id": "sample-4"})
	if rr.Code != http.StatusOK {
		t.Fatalf("select: %d %s", rr.Code, rr.Body)
	}
	if rr := s.do(t, http.MethodPost, "/api/map/select", token, map[string]string{"station_id": "ghost"}); rr.Code != http.StatusNotFound {
		t.Fatalf("select unknown: %d", rr.Code)
	}

	rr = s.do(t, http.MethodPost, "/api/map/zoom-in", token, nil)
	if rr.Code != http.StatusOK || !bytes.Contains(rr.Body.Bytes(), []byte(`"zoom":1.5`)) {
		t.Fatalf("zoom-in: %d %s", rr.Code, rr.Body)
	}

	rr = s.do(t, http.MethodGet, "/api/map/geojson?status=inactive", token, nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/geo+json" {
		t.Fatalf("geojson: %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
}

func TestLogoutTearsSessionDown(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn(t)

	if rr := s.do(t, http.MethodGet, "/api/stations", token, nil); rr.Code != http.StatusOK {
		t.Fatalf("list: %d", rr.Code)
	}
	if s.registry.Len() != 1 {
		t.Fatalf("expected one session, got %d", s.registry.Len())
	}
	if rr := s.do(t, http.MethodGet, "/api/auth/me", token, nil); rr.Code != http.StatusOK {
		t.Fatalf("me: %d", rr.Code)
	}

	if rr := s.do(t, http.MethodPost, "/api/auth/logout", token, nil); rr.Code != http.StatusOK {
		t.Fatalf("logout: %d", rr.Code)
	}
	if s.registry.Len() != 0 {
		t.Fatalf("logout must release the session store")
	}
	if rr := s.do(t, http.MethodGet, "/api/stations", token, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("token must be revoked, got %d", rr.Code)
	}
}
