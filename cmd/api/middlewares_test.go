package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NikKurkov/api-yamdb/internal/config"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	return &Application{
		cfg:  cfg,
		log:  log,
		Http: &Http{log: log, cfg: cfg},
	}
}

func requestWithUser(method string, user *models.User) *http.Request {
	request := httptest.NewRequest(method, "/", nil)
	return request.WithContext(context.WithValue(request.Context(), CtxKeyUser, user))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRecoverer(t *testing.T) {
	app := newTestApplication(t)
	testCases := []struct {
		name  string
		panic any
	}{
		{"error value", assert.AnError},
		{"string value", "something broke"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tc.panic)
			})
			app.Recoverer(next).ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		})
	}
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app := newTestApplication(t)
	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := requestWithUser(http.MethodGet, &models.User{
			ID:       1,
			Username: "test",
			Email:    "test@gmail.com",
			Role:     models.RoleUser,
		})
		app.requireAuthenticatedUser(okHandler).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := requestWithUser(http.MethodGet, models.AnonymousUser)
		app.requireAuthenticatedUser(okHandler).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequireCatalogAdmin(t *testing.T) {
	app := newTestApplication(t)
	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	regular := &models.User{ID: 2, Username: "reader", Role: models.RoleUser}
	testCases := []struct {
		name         string
		method       string
		user         *models.User
		expectedCode int
	}{
		{"AnonymousRead", http.MethodGet, models.AnonymousUser, http.StatusOK},
		{"AnonymousWrite", http.MethodPost, models.AnonymousUser, http.StatusUnauthorized},
		{"RegularWrite", http.MethodDelete, regular, http.StatusForbidden},
		{"AdminWrite", http.MethodPost, admin, http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := requestWithUser(tc.method, tc.user)
			app.requireCatalogAdmin(okHandler).ServeHTTP(recorder, request)
			assert.Equal(t, tc.expectedCode, recorder.Code)
		})
	}
}

func TestRequireAdminUser(t *testing.T) {
	app := newTestApplication(t)
	testCases := []struct {
		name         string
		user         *models.User
		expectedCode int
	}{
		{"Admin", &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, http.StatusOK},
		{"Moderator", &models.User{ID: 2, Username: "mod", Role: models.RoleModerator}, http.StatusForbidden},
		{"Regular", &models.User{ID: 3, Username: "reader", Role: models.RoleUser}, http.StatusForbidden},
		{"Anonymous", models.AnonymousUser, http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := requestWithUser(http.MethodGet, tc.user)
			app.requireAdminUser(okHandler).ServeHTTP(recorder, request)
			assert.Equal(t, tc.expectedCode, recorder.Code)
		})
	}
}
