package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/citizenvoice/pqrs-dashboard-api/api/handlers"
)

func setAdminEnv(t *testing.T, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	t.Setenv("ADMIN_EMAIL", "ops@citizenvoice.gov.co")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("JWT_SECRET", "test-secret")
}

func loginToken(t *testing.T) string {
	setAdminEnv(t, "hunter2")

	payload, _ := json.Marshal(map[string]string{"email": "ops@citizenvoice.gov.co", "password": "hunter2"})
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.Admin{}.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAdmin_AdminLoginHandler(t *testing.T) {
	loginToken(t)
}

func TestAdmin_AdminLoginHandlerWrongPassword(t *testing.T) {
	setAdminEnv(t, "hunter2")

	payload, _ := json.Marshal(map[string]string{"email": "ops@citizenvoice.gov.co", "password": "wrong"})
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.Admin{}.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_AdminLoginHandlerMissingFields(t *testing.T) {
	setAdminEnv(t, "hunter2")

	payload, _ := json.Marshal(map[string]string{"email": "", "password": ""})
	req, _ := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	http.HandlerFunc(handlers.Admin{}.AdminLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminMiddlewareAcceptsFreshToken(t *testing.T) {
	token := loginToken(t)

	called := false
	handler := handlers.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req, _ := http.NewRequest("POST", "/api/v1/notifications/broadcast", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminMiddlewareRejectsMissingToken(t *testing.T) {
	setAdminEnv(t, "hunter2")

	handler := handlers.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req, _ := http.NewRequest("POST", "/api/v1/notifications/broadcast", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminMiddlewareRejectsGarbageToken(t *testing.T) {
	setAdminEnv(t, "hunter2")

	handler := handlers.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req, _ := http.NewRequest("POST", "/api/v1/notifications/broadcast", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
