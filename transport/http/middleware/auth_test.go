package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus/config"
	"campus/infras/jwt"
	otelMocks "campus/infras/otel/mocks"
	"campus/permissions"
	"campus/shared/constant"
	"campus/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret  = "access-secret"
	appName = "campus"
	apiKey  = "internal-key"
)

const permissionsJSON = `{
	"endpoints": [
		{"path": "/v1/bookings/", "method": "POST", "permissions": ["user", "admin"]},
		{"path": "/v1/bookings/", "method": "GET", "permissions": ["admin"]},
		{"path": "/v1/public", "method": "GET", "skip": true}
	]
}`

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = appName
	cfg.App.APIKey = apiKey
	cfg.JWT.AccessSecret = secret

	return cfg
}

func token(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	if claims.Issuer == constant.Empty {
		claims.Issuer = appName
	}

	if claims.ExpiresAt == nil {
		claims.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(time.Hour))
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := newConfig()
	otl := otelMocks.NewOtel()

	perms, err := permissions.Parse([]byte(permissionsJSON))
	require.NoError(t, err)

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg, otl), otl, perms, cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.Header().Set("X-User", user)
		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Route("/v1", func(v1 chi.Router) {
		v1.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		v1.Route("/bookings", func(bookings chi.Router) {
			bookings.Post("/", echo)
			bookings.Get("/", echo)
		})
		v1.Get("/public", echo)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	router := newRouter(t)

	userToken := token(t, jwt.Claims{UserID: "alice", Role: constant.RoleUser, Type: jwt.AccessToken})
	adminToken := token(t, jwt.Claims{UserID: "root", Role: constant.RoleAdmin, Type: jwt.AccessToken})
	refreshToken := token(t, jwt.Claims{UserID: "alice", Role: constant.RoleUser, Type: jwt.RefreshToken})
	expiredToken := token(t, jwt.Claims{
		UserID: "alice",
		Type:   jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		apiKey   string
		wantCode int
		wantUser string
	}{
		{name: "user may book", method: http.MethodPost, path: "/v1/bookings", header: "Bearer " + userToken, wantCode: http.StatusNoContent, wantUser: "alice"},
		{name: "user may not list all", method: http.MethodGet, path: "/v1/bookings", header: "Bearer " + userToken, wantCode: http.StatusForbidden},
		{name: "admin may list all", method: http.MethodGet, path: "/v1/bookings", header: "Bearer " + adminToken, wantCode: http.StatusNoContent, wantUser: "root"},
		{name: "missing header", method: http.MethodPost, path: "/v1/bookings", wantCode: http.StatusUnauthorized},
		{name: "not a bearer", method: http.MethodPost, path: "/v1/bookings", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "expired", method: http.MethodPost, path: "/v1/bookings", header: "Bearer " + expiredToken, wantCode: http.StatusUnauthorized},
		{name: "refresh token", method: http.MethodPost, path: "/v1/bookings", header: "Bearer " + refreshToken, wantCode: http.StatusUnauthorized},
		{name: "skipped route", method: http.MethodGet, path: "/v1/public", wantCode: http.StatusNoContent},
		{name: "internal key", method: http.MethodGet, path: "/v1/bookings", apiKey: apiKey, wantCode: http.StatusNoContent, wantUser: constant.SystemUser},
		{name: "wrong internal key", method: http.MethodGet, path: "/v1/bookings", apiKey: "guess", wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, tt.header)
			}

			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, rec.Header().Get("X-User"))
		})
	}
}
