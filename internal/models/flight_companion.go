package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlightCompanionRequest represents a traveler asking for in-flight help.
// is_matched and matched_offer_id are owned by the matching flow; client
// mutations never carry them.
type FlightCompanionRequest struct {
	ID               int64      `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"userId" db:"user_id"`
	FlightNumber     string     `json:"flightNumber" db:"flight_number"`
	Airline          string     `json:"airline" db:"airline"`
	FlightDate       time.Time  `json:"flightDate" db:"flight_date"`
	DepartureAirport string     `json:"departureAirport" db:"departure_airport"`
	ArrivalAirport   string     `json:"arrivalAirport" db:"arrival_airport"`
	TravelerName     string     `json:"travelerName" db:"traveler_name"`
	TravelerAge      *int       `json:"travelerAge,omitempty" db:"traveler_age"`
	SpecialNeeds     NullString `json:"specialNeeds,omitempty" db:"special_needs"`
	OfferedAmount    float64    `json:"offeredAmount" db:"offered_amount"`
	AdditionalNotes  NullString `json:"additionalNotes,omitempty" db:"additional_notes"`
	IsMatched        bool       `json:"isMatched" db:"is_matched"`
	MatchedOfferID   *int64     `json:"matchedOfferId,omitempty" db:"matched_offer_id"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// FlightCompanionOffer represents a helper available on a flight route
type FlightCompanionOffer struct {
	ID                int64      `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"userId" db:"user_id"`
	FlightNumber      string     `json:"flightNumber" db:"flight_number"`
	Airline           string     `json:"airline" db:"airline"`
	FlightDate        time.Time  `json:"flightDate" db:"flight_date"`
	DepartureAirport  string     `json:"departureAirport" db:"departure_airport"`
	ArrivalAirport    string     `json:"arrivalAirport" db:"arrival_airport"`
	AvailableServices NullString `json:"availableServices,omitempty" db:"available_services"`
	Languages         NullString `json:"languages,omitempty" db:"languages"`
	HelpedCount       int        `json:"helpedCount" db:"helped_count"`
	IsAvailable       bool       `json:"isAvailable" db:"is_available"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}

// CreateFlightCompanionRequestInput represents the request to create a
// flight companion help request
type CreateFlightCompanionRequestInput struct {
	FlightNumber     string  `json:"flightNumber" binding:"required"`
	Airline          string  `json:"airline" binding:"required"`
	FlightDate       string  `json:"flightDate" binding:"required"` // RFC 3339
	DepartureAirport string  `json:"departureAirport" binding:"required"`
	ArrivalAirport   string  `json:"arrivalAirport" binding:"required"`
	TravelerName     string  `json:"travelerName" binding:"required"`
	TravelerAge      *int    `json:"travelerAge,omitempty"`
	SpecialNeeds     string  `json:"specialNeeds"`
	OfferedAmount    float64 `json:"offeredAmount"`
	AdditionalNotes  string  `json:"additionalNotes"`
}

// Validate validates the CreateFlightCompanionRequestInput
func (req *CreateFlightCompanionRequestInput) Validate() error {
	if _, err := time.Parse(time.RFC3339, req.FlightDate); err != nil {
		return errors.New("invalid flightDate: must be RFC 3339")
	}
	if req.OfferedAmount < 0 {
		return errors.New("offeredAmount must not be negative")
	}
	if req.TravelerAge != nil && (*req.TravelerAge < 0 || *req.TravelerAge > 130) {
		return errors.New("invalid travelerAge")
	}
	return nil
}

// FlightDateTime returns the parsed flight date. Validate must pass first.
func (req *CreateFlightCompanionRequestInput) FlightDateTime() time.Time {
	t, _ := time.Parse(time.RFC3339, req.FlightDate)
	return t
}

// UpdateFlightCompanionRequestInput represents the request to update a
// flight companion help request. Only the listed fields are writable;
// matching state stays server-owned.
type UpdateFlightCompanionRequestInput struct {
	FlightNumber     *string  `json:"flightNumber,omitempty"`
	Airline          *string  `json:"airline,omitempty"`
	FlightDate       *string  `json:"flightDate,omitempty"` // RFC 3339
	DepartureAirport *string  `json:"departureAirport,omitempty"`
	ArrivalAirport   *string  `json:"arrivalAirport,omitempty"`
	TravelerName     *string  `json:"travelerName,omitempty"`
	TravelerAge      *int     `json:"travelerAge,omitempty"`
	SpecialNeeds     *string  `json:"specialNeeds,omitempty"`
	OfferedAmount    *float64 `json:"offeredAmount,omitempty"`
	AdditionalNotes  *string  `json:"additionalNotes,omitempty"`
}

// Validate validates the UpdateFlightCompanionRequestInput
func (req *UpdateFlightCompanionRequestInput) Validate() error {
	if req.FlightDate != nil {
		if _, err := time.Parse(time.RFC3339, *req.FlightDate); err != nil {
			return errors.New("invalid flightDate: must be RFC 3339")
		}
	}
	if req.OfferedAmount != nil && *req.OfferedAmount < 0 {
		return errors.New("offeredAmount must not be negative")
	}
	if req.TravelerAge != nil && (*req.TravelerAge < 0 || *req.TravelerAge > 130) {
		return errors.New("invalid travelerAge")
	}
	return nil
}

// CreateFlightCompanionOfferInput represents the request to offer help
// on a flight route
type CreateFlightCompanionOfferInput struct {
	FlightNumber      string `json:"flightNumber" binding:"required"`
	Airline           string `json:"airline" binding:"required"`
	FlightDate        string `json:"flightDate" binding:"required"` // RFC 3339
	DepartureAirport  string `json:"departureAirport" binding:"required"`
	ArrivalAirport    string `json:"arrivalAirport" binding:"required"`
	AvailableServices string `json:"availableServices"`
	Languages         string `json:"languages"`
}

// Validate validates the CreateFlightCompanionOfferInput
func (req *CreateFlightCompanionOfferInput) Validate() error {
	if _, err := time.Parse(time.RFC3339, req.FlightDate); err != nil {
		return errors.New("invalid flightDate: must be RFC 3339")
	}
	return nil
}

// FlightDateTime returns the parsed flight date. Validate must pass first.
func (req *CreateFlightCompanionOfferInput) FlightDateTime() time.Time {
	t, _ := time.Parse(time.RFC3339, req.FlightDate)
	return t
}

// UpdateFlightCompanionOfferInput represents the request to update an
// offer. helped_count and is_available are not writable here.
type UpdateFlightCompanionOfferInput struct {
	FlightNumber      *string `json:"flightNumber,omitempty"`
	Airline           *string `json:"airline,omitempty"`
	FlightDate        *string `json:"flightDate,omitempty"` // RFC 3339
	DepartureAirport  *string `json:"departureAirport,omitempty"`
	ArrivalAirport    *string `json:"arrivalAirport,omitempty"`
	AvailableServices *string `json:"availableServices,omitempty"`
	Languages         *string `json:"languages,omitempty"`
}

// Validate validates the UpdateFlightCompanionOfferInput
func (req *UpdateFlightCompanionOfferInput) Validate() error {
	if req.FlightDate != nil {
		if _, err := time.Parse(time.RFC3339, *req.FlightDate); err != nil {
			return errors.New("invalid flightDate: must be RFC 3339")
		}
	}
	return nil
}

// MatchRequestInput assigns an offer to a request
type MatchRequestInput struct {
	OfferID int64 `json:"offerId" binding:"required"`
}
