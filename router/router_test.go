// file: router/router_test.go

package router_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"go-nutrition-api/handler"
	"go-nutrition-api/repository"
	"go-nutrition-api/router"
	"go-nutrition-api/service"
)

// newTestRouter wires the full HTTP stack over a sqlmock database. Rate
// limiting is disabled (no Redis in tests).
func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *service.TokenService) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tokens := service.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	authSvc := service.NewAuthService(userRepo, tokenRepo, tokens, bcrypt.MinCost)
	userSvc := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	limiter := handler.NewRateLimiter(nil, 60, time.Minute, "rl:test")

	return router.NewRouter(authHandler, userHandler, tokens, limiter, limiter), mock, tokens
}

func userColumns() []string {
	return []string{
		"id", "name", "email", "password_hash", "plan", "age", "weight", "weight_unit",
		"height", "height_unit", "gender", "fitness_goal", "gym_activity", "diet_focus",
		"is_onboarding_completed", "created_at", "updated_at",
	}
}

func annRow(passwordHash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userColumns()).AddRow(
		1, "Ann", "ann@x.com", passwordHash, "free", 30, 70.0, "kg",
		170.0, "cm", "female", "maintain", "moderate", "balanced",
		false, now, now)
}

func TestRegisterEndpoint(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("ann@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@x.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "plan", "weight_unit", "height_unit", "is_onboarding_completed", "created_at", "updated_at",
		}).AddRow(1, "free", "kg", "cm", false, now, now))
	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	body := `{"name":"Ann","email":"ann@x.com","password":"password123"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Success      bool   `json:"success"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		User         struct {
			Email                 string `json:"email"`
			IsOnboardingCompleted bool   `json:"is_onboarding_completed"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ann@x.com", resp.User.Email)
	assert.False(t, resp.User.IsOnboardingCompleted)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotContains(t, rr.Body.String(), "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	body := `{"name":"Ann","email":"not-an-email","password":"password123"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("ann@x.com").
		WillReturnRows(annRow(string(hash)))

	body := `{"email":"ann@x.com","password":"wrongpass1"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "AUTH_001")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshEndpoint_RotatedToken(t *testing.T) {
	r, mock, tokens := newTestRouter(t)

	// Signed claims still verify, but the row was already rotated away.
	refresh, err := tokens.IssueRefreshToken(1, "11111111-1111-1111-1111-111111111111")
	assert.NoError(t, err)
	mock.ExpectQuery(`SELECT (.+) FROM refresh_tokens`).
		WithArgs("11111111-1111-1111-1111-111111111111", 1).
		WillReturnError(sql.ErrNoRows)

	body := `{"refreshToken":"` + refresh + `"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh-token", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "AUTH_002")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEndpoint(t *testing.T) {
	r, mock, tokens := newTestRouter(t)

	access, err := tokens.IssueAccessToken(1, "ann@x.com", "Ann")
	assert.NoError(t, err)

	// Verify answers on both methods.
	for _, method := range []string{"GET", "POST"} {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
			WithArgs(1).
			WillReturnRows(annRow("irrelevant"))

		req := httptest.NewRequest(method, "/api/v1/auth/verify", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, method)
		assert.Contains(t, rr.Body.String(), `"ann@x.com"`, method)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/logout"},
		{"GET", "/api/v1/users/me"},
		{"PUT", "/api/v1/users/me"},
		{"PUT", "/api/v1/users/me/goals"},
		{"POST", "/api/v1/users/me/onboarding"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}
