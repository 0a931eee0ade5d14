package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// PickupRequestRepository handles airport pickup request database
// operations
type PickupRequestRepository struct {
	db DB
}

// NewPickupRequestRepository creates a new pickup request repository
func NewPickupRequestRepository(db DB) *PickupRequestRepository {
	return &PickupRequestRepository{
		db: db,
	}
}

const pickupRequestColumns = `
	id, user_id, airport, arrival_date, offered_amount, additional_notes,
	is_matched, matched_offer_id, created_at, updated_at
`

// Create inserts a new pickup request and returns the stored row
func (r *PickupRequestRepository) Create(userID uuid.UUID, input *models.CreatePickupRequestInput) (*models.PickupRequest, error) {
	query := `
		INSERT INTO pickup_requests (
			user_id, airport, arrival_date, offered_amount, additional_notes,
			is_matched, created_at, updated_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), FALSE, NOW(), NOW())
		RETURNING ` + pickupRequestColumns

	var request models.PickupRequest
	err := r.db.Get(
		&request,
		query,
		userID,
		input.Airport,
		input.ArrivalDateTime(),
		input.OfferedAmount,
		input.AdditionalNotes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pickup request: %w", err)
	}

	return &request, nil
}

// GetByID retrieves a pickup request by ID
func (r *PickupRequestRepository) GetByID(id int64) (*models.PickupRequest, error) {
	var request models.PickupRequest

	query := `
		SELECT ` + pickupRequestColumns + `
		FROM pickup_requests
		WHERE id = $1
	`

	err := r.db.Get(&request, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pickup request: %w", err)
	}

	return &request, nil
}

// ListOpen returns all requests still waiting for a driver, oldest first
func (r *PickupRequestRepository) ListOpen() ([]*models.PickupRequest, error) {
	var requests []*models.PickupRequest

	query := `
		SELECT ` + pickupRequestColumns + `
		FROM pickup_requests
		WHERE is_matched = FALSE
		ORDER BY created_at, id
	`

	err := r.db.Select(&requests, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickup requests: %w", err)
	}

	return requests, nil
}

// ListByUser returns all pickup requests created by the given user,
// oldest first
func (r *PickupRequestRepository) ListByUser(userID uuid.UUID) ([]*models.PickupRequest, error) {
	var requests []*models.PickupRequest

	query := `
		SELECT ` + pickupRequestColumns + `
		FROM pickup_requests
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	err := r.db.Select(&requests, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickup requests by user: %w", err)
	}

	return requests, nil
}

// CountByUser returns how many pickup requests the user has created
func (r *PickupRequestRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM pickup_requests WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pickup requests: %w", err)
	}

	return count, nil
}

// Update applies the writable fields from input to the request and
// returns the updated row. Matching state is never touched here.
func (r *PickupRequestRepository) Update(id int64, input *models.UpdatePickupRequestInput) (*models.PickupRequest, error) {
	setClauses := []string{}
	args := []interface{}{}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Airport != nil {
		addClause("airport", *input.Airport)
	}
	if input.ArrivalDate != nil {
		addClause("arrival_date", *input.ArrivalDate)
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
		UPDATE pickup_requests
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), pickupRequestColumns)

	var request models.PickupRequest
	err := r.db.Get(&request, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update pickup request: %w", err)
	}

	return &request, nil
}

// Delete removes a pickup request
func (r *PickupRequestRepository) Delete(id int64) error {
	query := `DELETE FROM pickup_requests WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete pickup request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("pickup request not found")
	}

	return nil
}
