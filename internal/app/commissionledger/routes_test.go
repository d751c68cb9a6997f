package commissionledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/commission-ledger/internal/cache"
	"github.com/magabrotheeeer/commission-ledger/internal/config"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/isodate"
	"github.com/magabrotheeeer/commission-ledger/internal/lib/jwt"
	"github.com/magabrotheeeer/commission-ledger/internal/metrics"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
	"github.com/magabrotheeeer/commission-ledger/internal/services/archive"
	"github.com/magabrotheeeer/commission-ledger/internal/services/auth"
	"github.com/magabrotheeeer/commission-ledger/internal/services/ledger"
	"github.com/magabrotheeeer/commission-ledger/internal/services/report"
)

// memoryStore хранит данные в памяти и повторяет контракт repository.Storage.
type memoryStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	installations map[int64]models.Installation
	reports       map[int64]models.Report
	nextID        int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         map[string]models.User{},
		installations: map[int64]models.Installation{},
		reports:       map[int64]models.Report{},
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) CreateUser(_ context.Context, user models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return 0, fmt.Errorf("%w: username taken", models.ErrConflict)
	}
	user.ID = s.id()
	s.users[user.Username] = user
	return user.ID, nil
}

func (s *memoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	return &u, nil
}

func (s *memoryStore) CreateInstallation(_ context.Context, inst models.Installation) (*models.Installation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst.ID = s.id()
	inst.CreatedAt = time.Now()
	s.installations[inst.ID] = inst
	return &inst, nil
}

func (s *memoryStore) GetInstallation(_ context.Context, id int64) (*models.Installation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.installations[id]
	if !ok {
		return nil, fmt.Errorf("%w: installation %d", models.ErrNotFound, id)
	}
	return &inst, nil
}

func (s *memoryStore) owned(ownerID, id int64) (models.Installation, error) {
	inst, ok := s.installations[id]
	if !ok {
		return inst, fmt.Errorf("%w: installation %d", models.ErrNotFound, id)
	}
	if inst.UserID != ownerID {
		return inst, fmt.Errorf("%w: installation %d", models.ErrForbidden, id)
	}
	return inst, nil
}

func (s *memoryStore) UpdateInstallation(_ context.Context, ownerID int64, inst models.Installation) (*models.Installation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.owned(ownerID, inst.ID)
	if err != nil {
		return nil, err
	}
	inst.CreatedAt = prev.CreatedAt
	s.installations[inst.ID] = inst
	return &inst, nil
}

func (s *memoryStore) DeleteInstallation(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(ownerID, id); err != nil {
		return err
	}
	delete(s.installations, id)
	return nil
}

func (s *memoryStore) ListInstallations(_ context.Context, ownerID int64) ([]models.Installation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Installation{}
	for _, inst := range s.installations {
		if inst.UserID == ownerID {
			result = append(result, inst)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (s *memoryStore) ArchivePeriod(_ context.Context, ownerID int64, start, end string, build models.ReportBuilder) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var selected []models.Installation
	for _, inst := range s.installations {
		if inst.UserID == ownerID && isodate.InPeriod(inst.InstalledOn, start, end) {
			selected = append(selected, inst)
		}
	}
	if len(selected) == 0 {
		return nil, nil
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].ID < selected[j].ID })

	r := build(selected)
	r.ID = s.id()
	r.UserID = ownerID
	r.PeriodStart = start
	r.PeriodEnd = end
	r.CreatedAt = time.Now()
	s.reports[r.ID] = r
	for _, inst := range selected {
		delete(s.installations, inst.ID)
	}
	return &r, nil
}

func (s *memoryStore) GetReport(_ context.Context, id int64) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: report %d", models.ErrNotFound, id)
	}
	return &r, nil
}

func (s *memoryStore) ListReports(_ context.Context, ownerID int64) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Report{}
	for _, r := range s.reports {
		if r.UserID == ownerID {
			r.Snapshot = nil
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memoryStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	store := newMemoryStore()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	cfg := &config.Config{}
	cfg.DefaultCommissionPercent = 15
	cfg.RPS = 100
	cfg.Burst = 100

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Auth:     auth.NewService(store, c, jwt.NewJWTMaker("test-secret", time.Hour), logger),
		Ledger:   ledger.NewService(store, m, logger, cfg.DefaultCommissionPercent),
		Archive:  archive.NewService(store, nil, m, logger),
		Report:   report.NewService(store),
		DB:       store,
		Metrics:  m,
		Gatherer: registry,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.Header.Get("Content-Type") != "" {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func signIn(t *testing.T, srv *httptest.Server, username string) string {
	t.Helper()
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": username, "password": "segredo", "confirm_password": "segredo",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": username, "password": "segredo",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func TestLedgerFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "operador")

	for _, date := range []string{"2025-03-10", "2025-04-02"} {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/installations", token, map[string]any{
			"plan_category": "CIDADE_FIBRA",
			"plan_tier":     "300_MEGAS",
			"client_login":  "cliente-" + date,
			"installed_on":  date,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	}

	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/installations", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, 30.0, data["total_commission"])
	assert.Equal(t, 2.0, data["count"])

	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/reports", token, map[string]string{
		"start_date": "2025-03-01", "end_date": "2025-03-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	archived := body["data"].(map[string]any)["report"].(map[string]any)
	assert.Equal(t, 15.0, archived["total_commission"])
	reportID := int64(archived["id"].(float64))

	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/installations", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["data"].(map[string]any)["count"])

	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/reports", token, map[string]string{
		"start_date": "2025-03-01", "end_date": "2025-03-31",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["data"].(map[string]any)["archived"])

	resp, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/reports/%d", reportID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/reports/%d/print", reportID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/reports/%d/export", reportID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio_2025-03-01_2025-03-31.xlsx")

	other := signIn(t, srv, "outro")
	resp, _ = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/reports/%d", reportID), other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStaticRoutesBeforeID(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "operador")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/installations/print", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestLogoutRevokesToken(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signIn(t, srv, "operador")

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/api/v1/installations", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnauthenticatedBrowserRedirect(t *testing.T) {
	srv, _ := newTestServer(t)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/installations/print", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	page, err := client.Get(srv.URL + resp.Header.Get("Location"))
	require.NoError(t, err)
	defer page.Body.Close()
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Header.Get("Content-Type"), "text/html")
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "commission_ledger_http_requests_total")
}

func TestSwaggerDoc(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/docs/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	info := doc["info"].(map[string]any)
	assert.Equal(t, "Commission Ledger API", info["title"])
	assert.Contains(t, doc["paths"], "/reports/{id}/export")
}
