package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// Matching errors. Handlers translate these to HTTP statuses.
var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrOfferNotFound    = errors.New("offer not found")
	ErrNotRequestOwner  = errors.New("request belongs to another user")
	ErrAlreadyMatched   = errors.New("request is already matched")
	ErrOfferUnavailable = errors.New("offer is no longer available")
)

// paymentCurrency is the settlement currency for all marketplace payments
const paymentCurrency = "NZD"

// MatchingService assigns offers to requests. Each match runs in a
// single transaction: the request is locked, the offer is locked, both
// are flipped, and a payment row is recorded. Either everything lands
// or nothing does.
type MatchingService struct {
	db database.DB
}

// NewMatchingService creates a new matching service
func NewMatchingService(db database.DB) *MatchingService {
	return &MatchingService{
		db: db,
	}
}

// MatchFlightCompanion assigns the offer to the caller's help request.
// The request must belong to callerID and still be unmatched; the offer
// must still be available.
func (s *MatchingService) MatchFlightCompanion(requestID int64, callerID uuid.UUID, offerID int64) (*models.FlightCompanionRequest, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var request models.FlightCompanionRequest
	err = tx.Get(&request, `
		SELECT id, user_id, offered_amount, is_matched
		FROM flight_companion_requests
		WHERE id = $1
		FOR UPDATE
	`, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to lock flight companion request: %w", err)
	}

	if request.UserID != callerID {
		return nil, ErrNotRequestOwner
	}
	if request.IsMatched {
		return nil, ErrAlreadyMatched
	}

	var offer models.FlightCompanionOffer
	err = tx.Get(&offer, `
		SELECT id, user_id, is_available
		FROM flight_companion_offers
		WHERE id = $1
		FOR UPDATE
	`, offerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to lock flight companion offer: %w", err)
	}

	if !offer.IsAvailable {
		return nil, ErrOfferUnavailable
	}

	var matched models.FlightCompanionRequest
	err = tx.Get(&matched, `
		UPDATE flight_companion_requests
		SET is_matched = TRUE, matched_offer_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, flight_number, airline, flight_date,
		          departure_airport, arrival_airport, traveler_name,
		          traveler_age, special_needs, offered_amount,
		          additional_notes, is_matched, matched_offer_id,
		          created_at, updated_at
	`, offerID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to match flight companion request: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE flight_companion_offers
		SET is_available = FALSE, helped_count = helped_count + 1, updated_at = NOW()
		WHERE id = $1
	`, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve flight companion offer: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO payments (
			user_id, counterparty_id, service_type, reference_id,
			amount, currency, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, request.UserID, offer.UserID, models.ServiceFlightCompanion, requestID,
		request.OfferedAmount, paymentCurrency, models.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"offer_id":   offerID,
		"amount":     request.OfferedAmount,
	}).Info("flight companion request matched")

	return &matched, nil
}

// MatchPickup assigns the offer to the caller's pickup request
func (s *MatchingService) MatchPickup(requestID int64, callerID uuid.UUID, offerID int64) (*models.PickupRequest, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var request models.PickupRequest
	err = tx.Get(&request, `
		SELECT id, user_id, offered_amount, is_matched
		FROM pickup_requests
		WHERE id = $1
		FOR UPDATE
	`, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to lock pickup request: %w", err)
	}

	if request.UserID != callerID {
		return nil, ErrNotRequestOwner
	}
	if request.IsMatched {
		return nil, ErrAlreadyMatched
	}

	var offer models.PickupOffer
	err = tx.Get(&offer, `
		SELECT id, user_id, is_available
		FROM pickup_offers
		WHERE id = $1
		FOR UPDATE
	`, offerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to lock pickup offer: %w", err)
	}

	if !offer.IsAvailable {
		return nil, ErrOfferUnavailable
	}

	var matched models.PickupRequest
	err = tx.Get(&matched, `
		UPDATE pickup_requests
		SET is_matched = TRUE, matched_offer_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, airport, arrival_date, offered_amount,
		          additional_notes, is_matched, matched_offer_id,
		          created_at, updated_at
	`, offerID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to match pickup request: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE pickup_offers
		SET is_available = FALSE, updated_at = NOW()
		WHERE id = $1
	`, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve pickup offer: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO payments (
			user_id, counterparty_id, service_type, reference_id,
			amount, currency, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, request.UserID, offer.UserID, models.ServicePickup, requestID,
		request.OfferedAmount, paymentCurrency, models.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"offer_id":   offerID,
		"amount":     request.OfferedAmount,
	}).Info("pickup request matched")

	return &matched, nil
}
