package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/application/auth"
	"github.com/shopfront/gateway/internal/application/cart"
	"github.com/shopfront/gateway/internal/application/catalog"
	"github.com/shopfront/gateway/internal/application/directory"
	"github.com/shopfront/gateway/internal/application/ordering"
	"github.com/shopfront/gateway/internal/application/report"
	"github.com/shopfront/gateway/internal/infrastructure/cache"
	"github.com/shopfront/gateway/internal/infrastructure/config"
	"github.com/shopfront/gateway/internal/infrastructure/session"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newPlatformStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "correct" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"code":"BAD_CREDENTIALS","message":"nope"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"platform-token","account":{"id":"acc-1","email":"staff@example.com"}}}`))
	})
	mux.HandleFunc("GET /admin/auth/self", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"acc-1","email":"staff@example.com"}}`))
	})
	mux.HandleFunc("POST /admin/auth/sign-out", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /admin/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"o1","order_number":"SO-1","status":"processing",` +
			`"documents":[{"kind":"invoice","url":"https://cdn.example.com/invoice.pdf"}]}}`))
	})
	mux.HandleFunc("POST /admin/orders/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"kind":"invoice","url":"https://cdn.example.com/invoice.pdf"}}`))
	})
	mux.HandleFunc("GET /admin/orders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"o1","order_number":"SO-1","status":"processing"}],` +
			`"pagination":{"page":2,"limit":1,"totalPages":3,"total":3}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	platform := newPlatformStub(t)

	client, err := upstream.NewClient(&upstream.Config{
		BaseURL: platform.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.App.Port = "0"
	cfg.Session.Secret = "test-secret-that-is-long-enough!"
	cfg.Session.Issuer = "gateway-test"
	cfg.Session.AdminCookieName = "gateway_admin"
	cfg.Session.CustomerCookieName = "gateway_customer"
	cfg.Session.AdminTTL = time.Hour
	cfg.Session.CustomerTTL = time.Hour
	cfg.Cookie.Path = "/"
	cfg.Cookie.SameSite = "lax"
	cfg.HTTP.MaxBodySize = 1 << 20

	codec := session.NewCodec(cfg.Session.Secret, cfg.Session.Issuer)
	store := session.NewMemoryStore()

	return Setup(Dependencies{
		Config:    cfg,
		Logger:    zap.NewNop(),
		Upstream:  client,
		AdminAuth: auth.NewAdminService(client, codec, store, time.Hour, zap.NewNop()),
		CustAuth:  auth.NewCustomerService(client, codec, store, time.Hour, zap.NewNop()),
		Ordering:  ordering.NewService(client, zap.NewNop()),
		Cart:      cart.NewService(client, zap.NewNop()),
		Catalog:   catalog.NewService(client, cache.NewMemoryListingCache(), time.Minute, zap.NewNop()),
		Report:    report.NewService(client, zap.NewNop()),
		Directory: directory.NewService(client, zap.NewNop()),
		Version:   "test",
	})
}

func TestRouter_Health(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_GuardedRoutesRejectAnonymous(t *testing.T) {
	engine := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/orders"},
		{http.MethodGet, "/admin/auth/self"},
		{http.MethodGet, "/store/cart"},
		{http.MethodGet, "/store/orders"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
		assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
	}
}

func TestRouter_AdminLoginFlow(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login",
		strings.NewReader(`{"email":"staff@example.com","password":"correct"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "gateway_admin" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the admin session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	// Cookie unlocks the admin surface
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/auth/self", nil)
	req.AddCookie(sessionCookie)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acc-1")
}

func TestRouter_BadCredentialsRejected(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login",
		strings.NewReader(`{"email":"staff@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "failed login must not set a cookie")
}

func TestRouter_PaginationMeta(t *testing.T) {
	engine := newTestRouter(t)

	// Log in first
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login",
		strings.NewReader(`{"email":"staff@example.com","password":"correct"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders?page=2&limit=1", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Meta struct {
			Page        int  `json:"page"`
			TotalPages  int  `json:"totalPages"`
			HasNext     bool `json:"hasNext"`
			HasPrevious bool `json:"hasPrevious"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Meta.Page)
	assert.Equal(t, 3, payload.Meta.TotalPages)
	assert.True(t, payload.Meta.HasNext, "page 2 of 3 has a next page")
	assert.True(t, payload.Meta.HasPrevious, "page 2 of 3 has a previous page")
}

func TestRouter_GenerateDocumentReturnsURL(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login",
		strings.NewReader(`{"email":"staff@example.com","password":"correct"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/orders/o1/documents",
		strings.NewReader(`{"kind":"invoice"}`))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Document struct {
				Kind string `json:"kind"`
				URL  string `json:"url"`
			} `json:"document"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invoice", body.Data.Document.Kind)
	assert.Equal(t, "https://cdn.example.com/invoice.pdf", body.Data.Document.URL)
}

func TestRouter_SignOutWithoutSessionStillClearsCookie(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/auth/sign-out", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "gateway_admin" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "sign-out must clear the session cookie unconditionally")
}

func TestRouter_UnknownRoute(t *testing.T) {
	engine := newTestRouter(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
