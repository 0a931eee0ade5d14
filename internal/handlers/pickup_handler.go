package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/middleware"
	"github.com/skybridge/travel-assist-backend/internal/models"
	"github.com/skybridge/travel-assist-backend/internal/services"
)

// PickupHandler handles airport pickup requests and offers
type PickupHandler struct {
	requestRepo     *database.PickupRequestRepository
	offerRepo       *database.PickupOfferRepository
	matchingService *services.MatchingService
}

// NewPickupHandler creates a new pickup handler
func NewPickupHandler(
	requestRepo *database.PickupRequestRepository,
	offerRepo *database.PickupOfferRepository,
	matchingService *services.MatchingService,
) *PickupHandler {
	return &PickupHandler{
		requestRepo:     requestRepo,
		offerRepo:       offerRepo,
		matchingService: matchingService,
	}
}

// ListRequests returns all unmatched pickup requests, oldest first
// GET /api/pickup/requests
func (h *PickupHandler) ListRequests(c *gin.Context) {
	requests, err := h.requestRepo.ListOpen()
	if err != nil {
		logrus.WithError(err).Error("failed to list pickup requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	if requests == nil {
		requests = []*models.PickupRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequest returns a single pickup request
// GET /api/pickup/requests/:id
func (h *PickupHandler) GetRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.requestRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get pickup request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// CreateRequest creates a pickup request owned by the caller
// POST /api/pickup/requests
func (h *PickupHandler) CreateRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.CreatePickupRequestInput
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
		logrus.WithError(err).Error("failed to create pickup request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// UpdateRequest updates a pickup request owned by the caller
// PUT /api/pickup/requests/:id
func (h *PickupHandler) UpdateRequest(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input models.UpdatePickupRequestInput
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
		logrus.WithError(err).Error("failed to get pickup request")
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
		logrus.WithError(err).Error("failed to update pickup request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteRequest deletes a pickup request owned by the caller
// DELETE /api/pickup/requests/:id
func (h *PickupHandler) DeleteRequest(c *gin.Context) {
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
		logrus.WithError(err).Error("failed to get pickup request")
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
		logrus.WithError(err).Error("failed to delete pickup request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

// MatchRequest assigns a driver's offer to the caller's pickup request
// POST /api/pickup/requests/:id/match
func (h *PickupHandler) MatchRequest(c *gin.Context) {
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

	matched, err := h.matchingService.MatchPickup(id, userCtx.UserID, input.OfferID)
	if err != nil {
		respondMatchError(c, err)
		return
	}

	c.JSON(http.StatusOK, matched)
}

// ListOffers returns all available pickup offers, oldest first
// GET /api/pickup/offers
func (h *PickupHandler) ListOffers(c *gin.Context) {
	offers, err := h.offerRepo.ListAvailable()
	if err != nil {
		logrus.WithError(err).Error("failed to list pickup offers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	if offers == nil {
		offers = []*models.PickupOffer{}
	}

	c.JSON(http.StatusOK, offers)
}

// GetOffer returns a single pickup offer
// GET /api/pickup/offers/:id
func (h *PickupHandler) GetOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	offer, err := h.offerRepo.GetByID(id)
	if err != nil {
		logrus.WithError(err).Error("failed to get pickup offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offer"})
		return
	}
	if offer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}

	c.JSON(http.StatusOK, offer)
}

// CreateOffer creates a pickup offer owned by the caller
// POST /api/pickup/offers
func (h *PickupHandler) CreateOffer(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input models.CreatePickupOfferInput
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
		logrus.WithError(err).Error("failed to create pickup offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// UpdateOffer updates a pickup offer owned by the caller
// PUT /api/pickup/offers/:id
func (h *PickupHandler) UpdateOffer(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input models.UpdatePickupOfferInput
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
		logrus.WithError(err).Error("failed to get pickup offer")
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
		logrus.WithError(err).Error("failed to update pickup offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update offer"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteOffer deletes a pickup offer owned by the caller
// DELETE /api/pickup/offers/:id
func (h *PickupHandler) DeleteOffer(c *gin.Context) {
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
		logrus.WithError(err).Error("failed to get pickup offer")
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
		logrus.WithError(err).Error("failed to delete pickup offer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete offer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}
