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

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/services"
)

var flightCompanionRequestRowColumns = []string{
	"id", "user_id", "flight_number", "airline", "flight_date",
	"departure_airport", "arrival_airport", "traveler_name", "traveler_age",
	"special_needs", "offered_amount", "additional_notes", "is_matched",
	"matched_offer_id", "created_at", "updated_at",
}

func setupFlightCompanionTestHandler(db *sqlx.DB) *FlightCompanionHandler {
	return NewFlightCompanionHandler(
		database.NewFlightCompanionRequestRepository(db),
		database.NewFlightCompanionOfferRepository(db),
		services.NewMatchingService(db),
	)
}

func requestRowForUser(id int64, userID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(flightCompanionRequestRowColumns).AddRow(
		id, userID, "NZ289", "Air New Zealand", now.Add(72*time.Hour),
		"AKL", "PVG", "Wei Chen", nil,
		nil, 80.0, nil, false,
		nil, now, now,
	)
}

func TestListRequests_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM flight_companion_requests`).
		WillReturnRows(sqlmock.NewRows(flightCompanionRequestRowColumns))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.ListRequests(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_Unauthenticated(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.CreateRequest(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRequest_InvalidDate(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"flightNumber":     "NZ289",
		"airline":          "Air New Zealand",
		"flightDate":       "next tuesday",
		"departureAirport": "AKL",
		"arrivalAirport":   "PVG",
		"travelerName":     "Wei Chen",
		"offeredAmount":    80,
	})

	c, w := setupAuthenticatedContext(uuid.New(), "jane@example.com")
	c.Request = httptest.NewRequest("POST", "/api/flight-companion/requests", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.CreateRequest(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "flightDate")
}

func TestUpdateRequest_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)
	userID := uuid.New()

	payload, _ := json.Marshal(map[string]interface{}{
		"offeredAmount": 120,
	})

	mock.ExpectQuery(`SELECT (.+) FROM flight_companion_requests`).
		WithArgs(int64(42)).
		WillReturnRows(requestRowForUser(42, userID))
	mock.ExpectQuery(`UPDATE flight_companion_requests`).
		WithArgs(120.0, int64(42)).
		WillReturnRows(requestRowForUser(42, userID))

	c, w := setupAuthenticatedContext(userID, "jane@example.com")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("PUT", "/api/flight-companion/requests/42", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateRequest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":42`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRequest_NotOwner(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"offeredAmount": 120,
	})

	// Row belongs to somebody else
	mock.ExpectQuery(`SELECT (.+) FROM flight_companion_requests`).
		WithArgs(int64(42)).
		WillReturnRows(requestRowForUser(42, uuid.New()))

	c, w := setupAuthenticatedContext(uuid.New(), "jane@example.com")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("PUT", "/api/flight-companion/requests/42", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateRequest(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRequest_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	mock.ExpectQuery(`SELECT (.+) FROM flight_companion_requests`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(flightCompanionRequestRowColumns))

	c, w := setupAuthenticatedContext(uuid.New(), "jane@example.com")
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	c.Request = httptest.NewRequest("DELETE", "/api/flight-companion/requests/999", nil)

	handler.DeleteRequest(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRequest_InvalidID(t *testing.T) {
	db, _ := setupTestDB(t)
	handler := setupFlightCompanionTestHandler(db)

	payload, _ := json.Marshal(map[string]interface{}{"offeredAmount": 120})

	c, w := setupAuthenticatedContext(uuid.New(), "jane@example.com")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("PUT", "/api/flight-companion/requests/abc", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateRequest(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid id")
}
