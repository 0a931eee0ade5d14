package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType distinguishes which marketplace a payment belongs to
type ServiceType string

const (
	ServiceFlightCompanion ServiceType = "flight_companion"
	ServicePickup          ServiceType = "pickup"
)

// PaymentStatus represents the settlement state of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Payment records what a traveler owes (or paid) a helper after a match.
// Rows are created by the matching flow; clients only read them.
type Payment struct {
	ID             int64         `json:"id" db:"id"`
	UserID         uuid.UUID     `json:"userId" db:"user_id"`
	CounterpartyID uuid.UUID     `json:"counterpartyId" db:"counterparty_id"`
	ServiceType    ServiceType   `json:"serviceType" db:"service_type"`
	ReferenceID    int64         `json:"referenceId" db:"reference_id"`
	Amount         float64       `json:"amount" db:"amount"`
	Currency       string        `json:"currency" db:"currency"`
	Status         PaymentStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
}

// UserStats is the aggregated read-only activity summary shown on the
// profile page. It is derived from the collections, never stored.
type UserStats struct {
	TotalFlightCompanionRequests int     `json:"totalFlightCompanionRequests"`
	TotalFlightCompanionOffers   int     `json:"totalFlightCompanionOffers"`
	TotalPickupRequests          int     `json:"totalPickupRequests"`
	TotalPickupOffers            int     `json:"totalPickupOffers"`
	CompletedServices            int     `json:"completedServices"`
	AverageRating                float64 `json:"averageRating"`
	TotalRatings                 int     `json:"totalRatings"`
}

// MyRequestsOffers bundles the caller's four collections for the
// profile page's single fetch
type MyRequestsOffers struct {
	FlightCompanionRequests []*FlightCompanionRequest `json:"flightCompanionRequests"`
	FlightCompanionOffers   []*FlightCompanionOffer   `json:"flightCompanionOffers"`
	PickupRequests          []*PickupRequest          `json:"pickupRequests"`
	PickupOffers            []*PickupOffer            `json:"pickupOffers"`
}
