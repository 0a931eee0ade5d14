package handlers

import (
	"bytes"
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

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/middleware"
	"github.com/skybridge/travel-assist-backend/internal/services"
)

var userRowColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "phone_number",
	"preferred_language", "is_verified", "emergency_contact", "emergency_phone",
	"rating", "total_ratings", "created_at", "last_login_at",
}

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// setupUserTestHandler wires a UserHandler against the mock database
func setupUserTestHandler(db *sqlx.DB) *UserHandler {
	userRepo := database.NewUserRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	statsService := services.NewStatsService(
		userRepo,
		database.NewFlightCompanionRequestRepository(db),
		database.NewFlightCompanionOfferRepository(db),
		database.NewPickupRequestRepository(db),
		database.NewPickupOfferRepository(db),
		paymentRepo,
	)
	return NewUserHandler(userRepo, paymentRepo, statsService)
}

// setupAuthenticatedContext creates a Gin context with an authenticated user
func setupAuthenticatedContext(userID uuid.UUID, email string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID:     userID,
		Email:      email,
		IsVerified: false,
	})

	return c, w
}

func userRow(userID uuid.UUID, verified bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).AddRow(
		userID, "jane@example.com", "hashed", "Jane", "Doe", nil,
		"English", verified, nil, nil,
		0.0, 0, now, nil,
	)
}

func TestGetProfile_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, false))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	handler.GetProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")
	assert.NotContains(t, w.Body.String(), "hashed") // password hash never leaves the server
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile_NoUserContext(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupUserTestHandler(db)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.GetProfile(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	// Phone arrives with spaces; it must be stored canonically
	body := map[string]string{
		"firstName":         "Jane",
		"lastName":          "Doe",
		"phoneNumber":       "+64 21 123 4567",
		"preferredLanguage": "English",
	}
	payload, _ := json.Marshal(body)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("Jane", "Doe", "+64211234567", "English", "", "", userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, false))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	c.Request = httptest.NewRequest("PUT", "/api/user/profile", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_InvalidName(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	body := map[string]string{
		"firstName":         "John123",
		"lastName":          "Doe",
		"preferredLanguage": "English",
	}
	payload, _ := json.Marshal(body)

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	c.Request = httptest.NewRequest("PUT", "/api/user/profile", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "letters and spaces")
}

func TestSubmitVerification_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	payload, _ := json.Marshal(map[string]string{
		"documentReferences": "passport scan ref ABC-123",
	})

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, false))
	mock.ExpectExec(`UPDATE users`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	c.Request = httptest.NewRequest("POST", "/api/user/verification", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.SubmitVerification(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isVerified":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitVerification_AlreadyVerified(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	payload, _ := json.Marshal(map[string]string{
		"documentReferences": "passport scan ref ABC-123",
	})

	// No UPDATE expected: verification never runs twice
	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, true))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	c.Request = httptest.NewRequest("POST", "/api/user/verification", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.SubmitVerification(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isVerified":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPayments_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM payments`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "counterparty_id", "service_type", "reference_id",
			"amount", "currency", "status", "created_at",
		}))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	handler.GetPayments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStats_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupUserTestHandler(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs(userID).
		WillReturnRows(userRow(userID, true))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM flight_companion_requests`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM flight_companion_offers`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM pickup_requests`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM pickup_offers`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	handler.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalFlightCompanionRequests":2`)
	assert.Contains(t, w.Body.String(), `"completedServices":4`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
