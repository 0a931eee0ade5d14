package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// PickupOfferRepository handles airport pickup offer database operations
type PickupOfferRepository struct {
	db DB
}

// NewPickupOfferRepository creates a new pickup offer repository
func NewPickupOfferRepository(db DB) *PickupOfferRepository {
	return &PickupOfferRepository{
		db: db,
	}
}

const pickupOfferColumns = `
	id, user_id, airport, base_rate, average_rating, additional_info,
	is_available, created_at, updated_at
`

// Create inserts a new pickup offer and returns the stored row
func (r *PickupOfferRepository) Create(userID uuid.UUID, input *models.CreatePickupOfferInput) (*models.PickupOffer, error) {
	query := `
		INSERT INTO pickup_offers (
			user_id, airport, base_rate, average_rating, additional_info,
			is_available, created_at, updated_at
		) VALUES ($1, $2, $3, 0, NULLIF($4, ''), TRUE, NOW(), NOW())
		RETURNING ` + pickupOfferColumns

	var offer models.PickupOffer
	err := r.db.Get(
		&offer,
		query,
		userID,
		input.Airport,
		input.BaseRate,
		input.AdditionalInfo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pickup offer: %w", err)
	}

	return &offer, nil
}

// GetByID retrieves a pickup offer by ID
func (r *PickupOfferRepository) GetByID(id int64) (*models.PickupOffer, error) {
	var offer models.PickupOffer

	query := `
		SELECT ` + pickupOfferColumns + `
		FROM pickup_offers
		WHERE id = $1
	`

	err := r.db.Get(&offer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pickup offer: %w", err)
	}

	return &offer, nil
}

// ListAvailable returns all offers still open for matching, oldest first
func (r *PickupOfferRepository) ListAvailable() ([]*models.PickupOffer, error) {
	var offers []*models.PickupOffer

	query := `
		SELECT ` + pickupOfferColumns + `
		FROM pickup_offers
		WHERE is_available = TRUE
		ORDER BY created_at, id
	`

	err := r.db.Select(&offers, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickup offers: %w", err)
	}

	return offers, nil
}

// ListByUser returns all pickup offers created by the given user,
// oldest first
func (r *PickupOfferRepository) ListByUser(userID uuid.UUID) ([]*models.PickupOffer, error) {
	var offers []*models.PickupOffer

	query := `
		SELECT ` + pickupOfferColumns + `
		FROM pickup_offers
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	err := r.db.Select(&offers, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pickup offers by user: %w", err)
	}

	return offers, nil
}

// CountByUser returns how many pickup offers the user has created
func (r *PickupOfferRepository) CountByUser(userID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM pickup_offers WHERE user_id = $1`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pickup offers: %w", err)
	}

	return count, nil
}

// Update applies the writable fields from input to the offer and returns
// the updated row. average_rating and is_available are never touched here.
func (r *PickupOfferRepository) Update(id int64, input *models.UpdatePickupOfferInput) (*models.PickupOffer, error) {
	setClauses := []string{}
	args := []interface{}{}

	addClause := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Airport != nil {
		addClause("airport", *input.Airport)
	}
	if input.BaseRate != nil {
		addClause("base_rate", *input.BaseRate)
	}
	if input.AdditionalInfo != nil {
		addClause("additional_info", nullIfEmpty(*input.AdditionalInfo))
	}

	if len(setClauses) == 0 {
		return r.GetByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE pickup_offers
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), pickupOfferColumns)

	var offer models.PickupOffer
	err := r.db.Get(&offer, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update pickup offer: %w", err)
	}

	return &offer, nil
}

// Delete removes a pickup offer
func (r *PickupOfferRepository) Delete(id int64) error {
	query := `DELETE FROM pickup_offers WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete pickup offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("pickup offer not found")
	}

	return nil
}
