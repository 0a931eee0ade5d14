package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/middleware"
	"github.com/skybridge/travel-assist-backend/internal/models"
	"github.com/skybridge/travel-assist-backend/internal/services"
)

// FlightCompanionHandler handles flight companion requests and offers
type FlightCompanionHandler struct {
	requestRepo     *database.FlightCompanionRequestRepository
	offerRepo       *database.FlightCompanionOfferRepository
	matchingService *services.MatchingService
}

// NewFlightCompanionHandler creates a new flight companion handler
func NewFlightCompanionHandler(
	requestRepo *database.FlightCompanionRequestRepository,
	offerRepo *database.FlightCompanionOfferRepository,
	matchingService *services.MatchingService,
) *FlightCompanionHandler {
	return &FlightCompanionHandler{
		requestRepo:     requestRepo,
		offerRepo:       offerRepo,
		matchingService: matchingService,
	}
}

// parseIDParam parses the :id path parameter. Sends a 400 and returns
// false when the parameter is not a positive integer.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// ListRequests returns all unmatched help requests, oldest first
// GET /api/flight-companion/requests
func (h *FlightCompanionHandler) ListRequests(c *gin.Context) {
	requests, err := h.requestRepo.ListOpen()
	if err != nil {
		logrus.WithError(err).Error("failed to list flight companion requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	if requests == nil {
		requests = []*models.FlightCompanionRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequest returns a single help request
// GET /api/flight-companion/requests/:id
func (h *FlightCompanionHandler) GetRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.requestRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// CreateRequest creates a help request owned by the caller
// POST /api/flight-companion/requests
func (h *FlightCompanionHandler) CreateRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.CreateFlightCompanionRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requestRepo.Create(userCtx.UserID, &input)
	if err != nil {
		logrus.WithError(err).Error("failed to create flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// UpdateRequest updates a help request owned by the caller
// PUT /api/flight-companion/requests/:id
func (h *FlightCompanionHandler) UpdateRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input models.UpdateFlightCompanionRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.requestRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if existing.UserID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this request"})
		return
	}

	updated, err := h.requestRepo.Update(id, &input)
	if err != nil {
		logrus.WithError(err).Error("failed to update flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRequest deletes a help request owned by the caller
// DELETE /api/flight-companion/requests/:id
func (h *FlightCompanionHandler) DeleteRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	existing, err := h.requestRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete request"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}
	if existing.UserID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this request"})
		return
	}

	if err := h.requestRepo.Delete(id); err != nil {
		logrus.WithError(err).Error("failed to delete flight companion request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

// MatchRequest assigns an offer to the caller's help request
// POST /api/flight-companion/requests/:id/match
func (h *FlightCompanionHandler) MatchRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input models.MatchRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched, err := h.matchingService.MatchFlightCompanion(id, userCtx.UserID, input.OfferID)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, matched)
}

// respondMatchError maps matching service errors to HTTP statuses
func respondMatchError(c *gin.Context, err error) {
	switch err {
	case services.ErrRequestNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case services.ErrOfferNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
	case services.ErrNotRequestOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to match this request"})
	case services.ErrAlreadyMatched:
		c.JSON(http.StatusConflict, gin.H{"error": "Request is already matched"})
	case services.ErrOfferUnavailable:
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is no longer available"})
	default:
		logrus.WithError(err).Error("failed to match request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to match request"})
	}
}

// ListOffers returns all available offers, oldest first
// GET /api/flight-companion/offers
func (h *FlightCompanionHandler) ListOffers(c *gin.Context) {
	offers, err := h.offerRepo.ListAvailable()
	if err != nil {
		logrus.WithError(err).Error("failed to list flight companion offers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	if offers == nil {
		offers = []*models.FlightCompanionOffer{}
	}

	c.JSON(http.StatusOK, offers)
}

// GetOffer returns a single offer
// GET /api/flight-companion/offers/:id
func (h *FlightCompanionHandler) GetOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	offer, err := h.offerRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offer"})
		return
	}
	if offer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}

	c.JSON(http.StatusOK, offer)
}

// CreateOffer creates an offer owned by the caller
// POST /api/flight-companion/offers
func (h *FlightCompanionHandler) CreateOffer(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.CreateFlightCompanionOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.offerRepo.Create(userCtx.UserID, &input)
	if err != nil {
		logrus.WithError(err).Error("failed to create flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// UpdateOffer updates an offer owned by the caller
// PUT /api/flight-companion/offers/:id
func (h *FlightCompanionHandler) UpdateOffer(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input models.UpdateFlightCompanionOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.offerRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update offer"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}
	if existing.UserID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this offer"})
		return
	}

	updated, err := h.offerRepo.Update(id, &input)
	if err != nil {
		logrus.WithError(err).Error("failed to update flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update offer"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteOffer deletes an offer owned by the caller
// DELETE /api/flight-companion/offers/:id
func (h *FlightCompanionHandler) DeleteOffer(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	existing, err := h.offerRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete offer"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}
	if existing.UserID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this offer"})
		return
	}

	if err := h.offerRepo.Delete(id); err != nil {
		logrus.WithError(err).Error("failed to delete flight companion offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete offer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}
