package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// PaymentRepository handles payment history database operations.
// Payment rows are inserted inside the matching transaction, so this
// repository only reads.
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

// ListByUser returns the user's payment history, newest first
func (r *PaymentRepository) ListByUser(userID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment

	query := `
		SELECT id, user_id, counterparty_id, service_type, reference_id,
		       amount, currency, status, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	err := r.db.Select(&payments, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// CountCompletedByUser returns how many of the user's payments settled
func (r *PaymentRepository) CountCompletedByUser(userID uuid.UUID) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM payments WHERE user_id = $1 AND status = 'completed'`

	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed payments: %w", err)
	}

	return count, nil
}
