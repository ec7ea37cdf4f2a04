package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/auth"
	"github.com/festy23/converge/internal/config"
	"github.com/festy23/converge/internal/database/dbtest"
	profileRepository "github.com/festy23/converge/internal/profile/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "converge")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--email", "alice@uni.edu"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	manager := auth.NewTokenManager(config.AuthConfig{Secret: testSecret, Issuer: "converge", TokenTTL: time.Hour})
	email, err := manager.Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice@uni.edu", email)
}

func TestNewRouter(t *testing.T) {
	logger := zap.NewNop().Sugar()
	db := dbtest.New(t)
	cfg := config.Config{
		GinMode: "test",
		Auth:    config.AuthConfig{Secret: testSecret, Issuer: "converge", TokenTTL: time.Hour},
	}
	r := newRouter(cfg, db, profileRepository.New(db, logger), prometheus.NewRegistry(), logger)

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get("/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/api/projects", "").Code)

	token, err := auth.NewTokenManager(cfg.Auth).Issue("alice@uni.edu")
	require.NoError(t, err)
	w := get("/api/projects", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	metrics := get("/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `converge_http_requests_total{method="GET",route="/api/projects",status="200"} 1`)
}
