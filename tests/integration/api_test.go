package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"balance-dashboard/config"
	"balance-dashboard/internal/adapter/backend"
	httpHandler "balance-dashboard/internal/adapter/http/handler"
	"balance-dashboard/internal/adapter/http/middleware"
	"balance-dashboard/internal/adapter/storage"
	"balance-dashboard/internal/service"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp runs the web dashboard against a fake accounts backend, with the
// token persisted in an in-memory Redis (miniredis). It exercises the real
// HTTP layer, services, backend client and token slot end-to-end.
type testApp struct {
	server  *httptest.Server
	backend *fakeBackend
	redis   *miniredis.Miniredis
	session *session.Session
	http    *http.Client
}

const slotKey = "session:itest"

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newFakeBackend(time.Now().UTC())
	backendSrv := httptest.NewServer(fake.router())
	t.Cleanup(backendSrv.Close)

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: backendSrv.URL, Timeout: 5 * time.Second},
		Session: config.SessionConfig{Store: config.StoreRedis, Key: "itest"},
		Redis:   config.RedisConfig{Host: mr.Host(), Port: port},
	}

	log := logger.New("error", false)
	slot, err := storage.OpenTokenSlot(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(slot.Close)

	sess := session.New("")
	client, err := backend.NewClient(cfg.API.BaseURL, backendSrv.Client(), sess, slot.Store, middleware.Navigator{}, log)
	require.NoError(t, err)

	authSvc := service.NewAuthService(client, sess, slot.Store, log)
	dashSvc := service.NewLatestDashboard(service.NewDashboardService(client, 2, log))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		DashboardSvc:   dashSvc,
		Session:        sess,
		Location:       time.UTC,
		HealthCheckers: slot.Checkers,
		Logger:         log,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:  server,
		backend: fake,
		redis:   mr,
		session: sess,
		http: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.http.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.http.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"wonderland"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status       string                       `json:"status"`
		Dependencies map[string]map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Dependencies["redis"]["status"])
}

func TestIntegration_SignedOutRedirects(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = app.get(t, "/api/accounts")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// guarded routes never reach the backend without a token
	assert.Empty(t, app.backend.seenAuth())
}

func TestIntegration_LoginRejected(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/login", url.Values{"username": {"alice"}, "password": {"guess"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Invalid password")
	assert.False(t, app.session.IsAuthenticated())
	assert.False(t, app.redis.Exists(slotKey))
}

func TestIntegration_LoginAndOverview(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	// token persisted in the slot
	token, err := app.redis.Get(slotKey)
	require.NoError(t, err)
	assert.Equal(t, app.session.Token(), token)

	resp, body := app.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Operating")
	assert.Contains(t, body, "Reserve")
	assert.Contains(t, body, "&#43;12.00$")

	for _, h := range app.backend.seenAuth() {
		assert.Equal(t, "Bearer "+token, h)
	}

	resp, body = app.get(t, "/api/accounts?search=RES")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Accounts []struct {
				Account struct {
					ID             string  `json:"id"`
					CurrentBalance float64 `json:"current_balance"`
				} `json:"account"`
				Delta string `json:"delta"`
			} `json:"accounts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	require.Len(t, envelope.Data.Accounts, 1)
	assert.Equal(t, "acc-2", envelope.Data.Accounts[0].Account.ID)
	assert.Equal(t, 40.0, envelope.Data.Accounts[0].Account.CurrentBalance)
	assert.Equal(t, "+0.00$", envelope.Data.Accounts[0].Delta)

	resp, _ = app.get(t, "/api/session")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIntegration_AccountDetail(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, body := app.get(t, "/api/accounts/acc-1/changes?preset=7d")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	from, to := app.backend.lastRange()
	assert.True(t, strings.HasSuffix(from, "T00:00:00.000Z"), from)
	assert.True(t, strings.HasSuffix(to, "T23:59:59.999Z"), to)

	var envelope struct {
		Data struct {
			Changes []struct {
				ID string `json:"id"`
			} `json:"changes"`
			Total      float64           `json:"total"`
			DiffSeries []json.RawMessage `json:"diff_series"`
			Mismatches []json.RawMessage `json:"mismatches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	require.Len(t, envelope.Data.Changes, 3)
	assert.Equal(t, "bc-3", envelope.Data.Changes[0].ID)
	assert.Equal(t, 12.0, envelope.Data.Total)
	assert.Len(t, envelope.Data.DiffSeries, 1)
	assert.Empty(t, envelope.Data.Mismatches)

	resp, body = app.get(t, "/dashboard/accounts/acc-1?from=2025-03-01&to=2025-03-02&view=diff")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Operating")
	from, to = app.backend.lastRange()
	assert.Equal(t, "2025-03-01T00:00:00.000Z", from)
	assert.Equal(t, "2025-03-02T23:59:59.999Z", to)

	resp, _ = app.get(t, "/api/accounts/missing/changes")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_UnauthorizedSignsOut(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	require.True(t, app.redis.Exists(slotKey))

	app.backend.revokeAll()

	resp, _ := app.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	assert.False(t, app.session.IsAuthenticated())
	assert.False(t, app.redis.Exists(slotKey))

	resp, body := app.get(t, "/api/session")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"authenticated":false`)

	// signed out now, so the guard answers without a backend round trip
	before := len(app.backend.seenAuth())
	resp, _ = app.get(t, "/api/accounts")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Len(t, app.backend.seenAuth(), before)
}

func TestIntegration_ConcurrentUnauthorized(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	app.backend.revokeAll()

	const n = 8
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := app.http.Get(app.server.URL + "/api/accounts/acc-1/changes")
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	// a detail load may be superseded by a newer one (409); none succeeds
	unauthorized := 0
	for _, code := range codes {
		assert.Contains(t, []int{http.StatusUnauthorized, http.StatusConflict}, code)
		if code == http.StatusUnauthorized {
			unauthorized++
		}
	}
	assert.Positive(t, unauthorized)
	assert.False(t, app.session.IsAuthenticated())
	assert.False(t, app.redis.Exists(slotKey))
}

func TestIntegration_Logout(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	resp, _ := app.postForm(t, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	assert.False(t, app.session.IsAuthenticated())
	assert.False(t, app.redis.Exists(slotKey))

	resp, _ = app.get(t, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}
