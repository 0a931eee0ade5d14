package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/pkg/jwt"
)

func setupAuthTestHandler(db *sqlx.DB) *AuthHandler {
	jwtService := jwt.NewService(jwt.Settings{
		Issuer:               "travel-assist-api",
		Audience:             "travel-assist-client",
		SecretKey:            "test-secret-key-1234567890abcdef",
		TokenLifetimeMinutes: 60,
	})
	return NewAuthHandler(database.NewUserRepository(db), jwtService, bcrypt.MinCost)
}

func postJSON(path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, _ := json.Marshal(body)
	c.Request = httptest.NewRequest("POST", path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func TestRegister_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupAuthTestHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("jane@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := postJSON("/api/auth/register", map[string]string{
		"email":     "Jane@Example.com", // stored lowercased
		"password":  "supersecret",
		"firstName": "Jane",
		"lastName":  "Doe",
	})

	handler.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "jane@example.com", resp.User.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_EmailTaken(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupAuthTestHandler(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("jane@example.com").
		WillReturnRows(userRow(userID, false))

	c, w := postJSON("/api/auth/register", map[string]string{
		"email":     "jane@example.com",
		"password":  "supersecret",
		"firstName": "Jane",
		"lastName":  "Doe",
	})

	handler.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_taken")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_ShortPassword(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupAuthTestHandler(db)

	c, w := postJSON("/api/auth/register", map[string]string{
		"email":     "jane@example.com",
		"password":  "short",
		"firstName": "Jane",
		"lastName":  "Doe",
	})

	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupAuthTestHandler(db)
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			userID, "jane@example.com", string(hash), "Jane", "Doe", nil,
			"English", true, nil, nil,
			4.5, 12, now, nil,
		))
	mock.ExpectExec(`UPDATE users`).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := postJSON("/api/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "supersecret",
	})

	handler.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.IsVerified)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupAuthTestHandler(db)
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			userID, "jane@example.com", string(hash), "Jane", "Doe", nil,
			"English", false, nil, nil,
			0.0, 0, now, nil,
		))

	c, w := postJSON("/api/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupAuthTestHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	c, w := postJSON("/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}
