package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// FlightCompanionOfferRepository handles flight companion offer
// database operations
type FlightCompanionOfferRepository struct {
	db DB
}

// NewFlightCompanionOfferRepository creates a new flight companion
// offer repository
func NewFlightCompanionOfferRepository(db DB) *FlightCompanionOfferRepository {
	return &FlightCompanionOfferRepository{
		db: db,
	}
}

const flightCompanionOfferColumns = `
	id, user_id, flight_number, airline, flight_date, departure_airport,
	arrival_airport, available_services, languages, helped_count,
	is_available, created_at, updated_at
`

// Create inserts a new offer and returns the stored row
func (r *FlightCompanionOfferRepository) Create(userID uuid.UUID, input *models.CreateFlightCompanionOfferInput) (*models.FlightCompanionOffer, error) {
	query := `
		INSERT INTO flight_companion_offers (
			user_id, flight_number, airline, flight_date, departure_airport,
			arrival_airport, available_services, languages, helped_count,
			is_available, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), 0, TRUE, NOW(), NOW())
		RETURNING ` + flightCompanionOfferColumns

	var offer models.FlightCompanionOffer
	err := r.db.Get(
		&offer,
		query,
		userID,
		input.FlightNumber,
		input.Airline,
		input.FlightDateTime(),
		input.DepartureAirport,
		input.ArrivalAirport,
		input.AvailableServices,
		input.Languages,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flight companion offer: %w", err)
	}

	return &offer, nil
}

// GetByID retrieves an offer by ID
func (r *FlightCompanionOfferRepository) GetByID(id int64) (*models.FlightCompanionOffer, error) {
	var offer models.FlightCompanionOffer

	query := `
		SELECT ` + flightCompanionOfferColumns + `
		FROM flight_companion_offers
		WHERE id = $1
	`

	err := r.db.Get(&offer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight companion offer: %w", err)
	}

	return &offer, nil
}

// ListAvailable returns all offers still open for matching, oldest first
func (r *FlightCompanionOfferRepository) ListAvailable() ([]*models.FlightCompanionOffer, error) {
	var offers []*models.FlightCompanionOffer

	query := `
		SELECT ` + flightCompanionOfferColumns + `
		FROM flight_companion_offers
		WHERE is_available = TRUE
		ORDER BY created_at, id
	`

	err := r.db.Select(&offers, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight companion offers: %w", err)
	}

	return offers, nil
}

// ListByUser returns all offers created by the given user, oldest first
func (r *FlightCompanionOfferRepository) ListByUser(userID uuid.UUID) ([]*models.FlightCompanionOffer, error) {
	var offers []*models.FlightCompanionOffer

	query := `
		SELECT ` + flightCompanionOfferColumns + `
		FROM flight_companion_offers
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	err := r.db.Select(&offers, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flight companion offers by user: %w", err)
	}

	return offers, nil
}

// CountByUser returns how many offers the user has created
func (r *FlightCompanionOfferRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM flight_companion_offers WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flight companion offers: %w", err)
	}

	return count, nil
}

// SumHelpedByUser totals helped_count across the user's offers
func (r *FlightCompanionOfferRepository) SumHelpedByUser(userID uuid.UUID) (int, error) {
	var total int

	query := `SELECT COALESCE(SUM(helped_count), 0) FROM flight_companion_offers WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum helped count: %w", err)
	}

	return total, nil
}

// Update applies the writable fields from input to the offer and returns
// the updated row. helped_count and is_available are never touched here.
func (r *FlightCompanionOfferRepository) Update(id int64, input *models.UpdateFlightCompanionOfferInput) (*models.FlightCompanionOffer, error) {
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
	if input.AvailableServices != nil {
		addClause("available_services", nullIfEmpty(*input.AvailableServices))
	}
	if input.Languages != nil {
		addClause("languages", nullIfEmpty(*input.Languages))
	}

	if len(setClauses) == 0 {
		return r.GetByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE flight_companion_offers
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), flightCompanionOfferColumns)

	var offer models.FlightCompanionOffer
	err := r.db.Get(&offer, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update flight companion offer: %w", err)
	}

	return &offer, nil
}

// Delete removes an offer
func (r *FlightCompanionOfferRepository) Delete(id int64) error {
	query := `DELETE FROM flight_companion_offers WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flight companion offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("flight companion offer not found")
	}

	return nil
}
