package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PickupRequest represents a traveler asking for an airport pickup
type PickupRequest struct {
	ID              int64      `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"userId" db:"user_id"`
	Airport         string     `json:"airport" db:"airport"`
	ArrivalDate     time.Time  `json:"arrivalDate" db:"arrival_date"`
	OfferedAmount   float64    `json:"offeredAmount" db:"offered_amount"`
	AdditionalNotes NullString `json:"additionalNotes,omitempty" db:"additional_notes"`
	IsMatched       bool       `json:"isMatched" db:"is_matched"`
	MatchedOfferID  *int64     `json:"matchedOfferId,omitempty" db:"matched_offer_id"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// PickupOffer represents a driver offering airport ground transport
type PickupOffer struct {
	ID             int64      `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"userId" db:"user_id"`
	Airport        string     `json:"airport" db:"airport"`
	BaseRate       float64    `json:"baseRate" db:"base_rate"`
	AverageRating  float64    `json:"averageRating" db:"average_rating"`
	AdditionalInfo NullString `json:"additionalInfo,omitempty" db:"additional_info"`
	IsAvailable    bool       `json:"isAvailable" db:"is_available"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// CreatePickupRequestInput represents the request to create a pickup request
type CreatePickupRequestInput struct {
	Airport         string  `json:"airport" binding:"required"`
	ArrivalDate     string  `json:"arrivalDate" binding:"required"` // RFC 3339
	OfferedAmount   float64 `json:"offeredAmount"`
	AdditionalNotes string  `json:"additionalNotes"`
}

// Validate validates the CreatePickupRequestInput
func (req *CreatePickupRequestInput) Validate() error {
	if _, err := time.Parse(time.RFC3339, req.ArrivalDate); err != nil {
		return errors.New("invalid arrivalDate: must be RFC 3339")
	}
	if req.OfferedAmount < 0 {
		return errors.New("offeredAmount must not be negative")
	}
	return nil
}

// ArrivalDateTime returns the parsed arrival date. Validate must pass first.
func (req *CreatePickupRequestInput) ArrivalDateTime() time.Time {
	t, _ := time.Parse(time.RFC3339, req.ArrivalDate)
	return t
}

// UpdatePickupRequestInput represents the request to update a pickup request
type UpdatePickupRequestInput struct {
	Airport         *string  `json:"airport,omitempty"`
	ArrivalDate     *string  `json:"arrivalDate,omitempty"` // RFC 3339
	OfferedAmount   *float64 `json:"offeredAmount,omitempty"`
	AdditionalNotes *string  `json:"additionalNotes,omitempty"`
}

// Validate validates the UpdatePickupRequestInput
func (req *UpdatePickupRequestInput) Validate() error {
	if req.ArrivalDate != nil {
		if _, err := time.Parse(time.RFC3339, *req.ArrivalDate); err != nil {
			return errors.New("invalid arrivalDate: must be RFC 3339")
		}
	}
	if req.OfferedAmount != nil && *req.OfferedAmount < 0 {
		return errors.New("offeredAmount must not be negative")
	}
	return nil
}

// CreatePickupOfferInput represents the request to create a pickup offer
type CreatePickupOfferInput struct {
	Airport        string  `json:"airport" binding:"required"`
	BaseRate       float64 `json:"baseRate"`
	AdditionalInfo string  `json:"additionalInfo"`
}

// Validate validates the CreatePickupOfferInput
func (req *CreatePickupOfferInput) Validate() error {
	if req.BaseRate < 0 {
		return errors.New("baseRate must not be negative")
	}
	return nil
}

// UpdatePickupOfferInput represents the request to update a pickup offer.
// averageRating is computed from received ratings, not writable.
type UpdatePickupOfferInput struct {
	Airport        *string  `json:"airport,omitempty"`
	BaseRate       *float64 `json:"baseRate,omitempty"`
	AdditionalInfo *string  `json:"additionalInfo,omitempty"`
}

// Validate validates the UpdatePickupOfferInput
func (req *UpdatePickupOfferInput) Validate() error {
	if req.BaseRate != nil && *req.BaseRate < 0 {
		return errors.New("baseRate must not be negative")
	}
	return nil
}
