package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// FlightCompanionRequestRepository handles flight companion request
// database operations
type FlightCompanionRequestRepository struct {
	db DB
}

// NewFlightCompanionRequestRepository creates a new flight companion
// request repository
func NewFlightCompanionRequestRepository(db DB) *FlightCompanionRequestRepository {
	return &FlightCompanionRequestRepository{
		db: db,
	}
}

const flightCompanionRequestColumns = `
	id, user_id, flight_number, airline, flight_date, departure_airport,
	arrival_airport, traveler_name, traveler_age, special_needs,
	offered_amount, additional_notes, is_matched, matched_offer_id,
	created_at, updated_at
`

// Create inserts a new help request and returns the stored row
func (r *FlightCompanionRequestRepository) Create(userID uuid.UUID, input *models.CreateFlightCompanionRequestInput) (*models.FlightCompanionRequest, error) {
	query := `
		INSERT INTO flight_companion_requests (
			user_id, flight_number, airline, flight_date, departure_airport,
			arrival_airport, traveler_name, traveler_age, special_needs,
			offered_amount, additional_notes, is_matched,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''), FALSE, NOW(), NOW())
		RETURNING ` + flightCompanionRequestColumns

	var request models.FlightCompanionRequest
	err := r.db.Get(
		&request,
		query,
		userID,
		input.FlightNumber,
		input.Airline,
		input.FlightDateTime(),
		input.DepartureAirport,
		input.ArrivalAirport,
		input.TravelerName,
		input.TravelerAge,
		input.SpecialNeeds,
		input.OfferedAmount,
		input.AdditionalNotes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight companion request: %w", err)
	}

	return &request, nil
}

// GetByID retrieves a help request by ID
func (r *FlightCompanionRequestRepository) GetByID(id int64) (*models.FlightCompanionRequest, error) {
	var request models.FlightCompanionRequest

	query := `
		SELECT ` + flightCompanionRequestColumns + `
		FROM flight_companion_requests
		WHERE id = $1
	`

	err := r.db.Get(&request, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight companion request: %w", err)
	}

	return &request, nil
}

// ListOpen returns all requests still waiting for a helper, oldest first
func (r *FlightCompanionRequestRepository) ListOpen() ([]*models.FlightCompanionRequest, error) {
	var requests []*models.FlightCompanionRequest

	query := `
		SELECT ` + flightCompanionRequestColumns + `
		FROM flight_companion_requests
		WHERE is_matched = FALSE
		ORDER BY created_at, id
	`

	err := r.db.Select(&requests, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight companion requests: %w", err)
	}

	return requests, nil
}

// ListByUser returns all requests created by the given user, oldest first
func (r *FlightCompanionRequestRepository) ListByUser(userID uuid.UUID) ([]*models.FlightCompanionRequest, error) {
	var requests []*models.FlightCompanionRequest

	query := `
		SELECT ` + flightCompanionRequestColumns + `
		FROM flight_companion_requests
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	err := r.db.Select(&requests, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight companion requests by user: %w", err)
	}

	return requests, nil
}

// CountByUser returns how many requests the user has created
func (r *FlightCompanionRequestRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM flight_companion_requests WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flight companion requests: %w", err)
	}

	return count, nil
}

// Update applies the writable fields from input to the request and
// returns the updated row. Matching state is never touched here.
func (r *FlightCompanionRequestRepository) Update(id int64, input *models.UpdateFlightCompanionRequestInput) (*models.FlightCompanionRequest, error) {
	setClauses := []string{}
	args := []interface{}{}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.FlightNumber != nil {
		addClause("flight_number", *input.FlightNumber)
	}
	if input.Airline != nil {
		addClause("airline", *input.Airline)
	}
	if input.FlightDate != nil {
		addClause("flight_date", *input.FlightDate)
	}
	if input.DepartureAirport != nil {
		addClause("departure_airport", *input.DepartureAirport)
	}
	if input.ArrivalAirport != nil {
		addClause("arrival_airport", *input.ArrivalAirport)
	}
	if input.TravelerName != nil {
		addClause("traveler_name", *input.TravelerName)
	}
	if input.TravelerAge != nil {
		addClause("traveler_age", *input.TravelerAge)
	}
	if input.SpecialNeeds != nil {
		addClause("special_needs", nullIfEmpty(*input.SpecialNeeds))
	}
	if input.OfferedAmount != nil {
		addClause("offered_amount", *input.OfferedAmount)
	}
	if input.AdditionalNotes != nil {
		addClause("additional_notes", nullIfEmpty(*input.AdditionalNotes))
	}

	if len(setClauses) == 0 {
		return r.GetByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE flight_companion_requests
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), flightCompanionRequestColumns)

	var request models.FlightCompanionRequest
	err := r.db.Get(&request, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update flight companion request: %w", err)
	}

	return &request, nil
}

// Delete removes a help request
func (r *FlightCompanionRequestRepository) Delete(id int64) error {
	query := `DELETE FROM flight_companion_requests WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight companion request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("flight companion request not found")
	}

	return nil
}

// nullIfEmpty converts "" to a SQL NULL so optional text columns stay
// NULL rather than holding empty strings
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
