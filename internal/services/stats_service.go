package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// StatsService derives the profile page's activity summary from the
// user's collections. Nothing here is stored; every call recomputes.
type StatsService struct {
	userRepo          *database.UserRepository
	fcRequestRepo     *database.FlightCompanionRequestRepository
	fcOfferRepo       *database.FlightCompanionOfferRepository
	pickupRequestRepo *database.PickupRequestRepository
	pickupOfferRepo   *database.PickupOfferRepository
	paymentRepo       *database.PaymentRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo *database.UserRepository,
	fcRequestRepo *database.FlightCompanionRequestRepository,
	fcOfferRepo *database.FlightCompanionOfferRepository,
	pickupRequestRepo *database.PickupRequestRepository,
	pickupOfferRepo *database.PickupOfferRepository,
	paymentRepo *database.PaymentRepository,
) *StatsService {
	return &StatsService{
		userRepo:          userRepo,
		fcRequestRepo:     fcRequestRepo,
		fcOfferRepo:       fcOfferRepo,
		pickupRequestRepo: pickupRequestRepo,
		pickupOfferRepo:   pickupOfferRepo,
		paymentRepo:       paymentRepo,
	}
}

// GetUserStats aggregates the user's marketplace activity
func (s *StatsService) GetUserStats(userID uuid.UUID) (*models.UserStats, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	fcRequests, err := s.fcRequestRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	fcOffers, err := s.fcOfferRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	pickupRequests, err := s.pickupRequestRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	pickupOffers, err := s.pickupOfferRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.paymentRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalFlightCompanionRequests: fcRequests,
		TotalFlightCompanionOffers:   fcOffers,
		TotalPickupRequests:          pickupRequests,
		TotalPickupOffers:            pickupOffers,
		CompletedServices:            completed,
		AverageRating:                user.Rating,
		TotalRatings:                 user.TotalRatings,
	}, nil
}

// GetMyRequestsOffers bundles the user's four collections for the
// profile page's single fetch
func (s *StatsService) GetMyRequestsOffers(userID uuid.UUID) (*models.MyRequestsOffers, error) {
	fcRequests, err := s.fcRequestRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	fcOffers, err := s.fcOfferRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	pickupRequests, err := s.pickupRequestRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	pickupOffers, err := s.pickupOfferRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	if fcRequests == nil {
		fcRequests = []*models.FlightCompanionRequest{}
	}
	if fcOffers == nil {
		fcOffers = []*models.FlightCompanionOffer{}
	}
	if pickupRequests == nil {
		pickupRequests = []*models.PickupRequest{}
	}
	if pickupOffers == nil {
		pickupOffers = []*models.PickupOffer{}
	}

	return &models.MyRequestsOffers{
		FlightCompanionRequests: fcRequests,
		FlightCompanionOffers:   fcOffers,
		PickupRequests:          pickupRequests,
		PickupOffers:            pickupOffers,
	}, nil
}
