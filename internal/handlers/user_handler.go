package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skybridge/travel-assist-backend/internal/database"
	"github.com/skybridge/travel-assist-backend/internal/middleware"
	"github.com/skybridge/travel-assist-backend/internal/models"
	"github.com/skybridge/travel-assist-backend/internal/services"
	"github.com/skybridge/travel-assist-backend/pkg/validator"
)

// UserHandler handles profile, stats, verification and payment history
type UserHandler struct {
	userRepo       *database.UserRepository
	paymentRepo    *database.PaymentRepository
	statsService   *services.StatsService
	phoneValidator *validator.PhoneValidator
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo *database.UserRepository, paymentRepo *database.PaymentRepository, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		userRepo:       userRepo,
		paymentRepo:    paymentRepo,
		statsService:   statsService,
		phoneValidator: validator.NewPhoneValidator(),
	}
}

// GetProfile returns the authenticated user's profile
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userRepo.GetUserByID(userCtx.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to get user profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the writable profile fields and returns the
// refreshed profile. Email and verification state cannot be changed here.
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Canonicalize phones first ("+64" followed by digits only) so the
	// field validation below sees the stored form
	phone, err := h.phoneValidator.Format(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phoneNumber must be +64 followed by 8-9 digits"})
		return
	}
	req.PhoneNumber = phone

	emergencyPhone, err := h.phoneValidator.Format(req.EmergencyPhone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emergencyPhone must be +64 followed by 8-9 digits"})
		return
	}
	req.EmergencyPhone = emergencyPhone

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userRepo.UpdateProfile(userCtx.UserID, &req); err != nil {
		logrus.WithError(err).Error("failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	user, err := h.userRepo.GetUserByID(userCtx.UserID)
	if err != nil || user == nil {
		logrus.WithError(err).Error("failed to reload profile after update")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetStats returns the aggregated activity summary
// GET /api/user/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.statsService.GetUserStats(userCtx.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to compute user stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetMyRequestsOffers returns the caller's four collections in one response
// GET /api/user/my-requests-offers
func (h *UserHandler) GetMyRequestsOffers(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bundle, err := h.statsService.GetMyRequestsOffers(userCtx.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to load requests and offers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests and offers"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// SubmitVerification accepts identity document references and marks the
// account verified. Verification only ever moves false -> true;
// resubmitting after approval is a no-op.
// POST /api/user/verification
func (h *UserHandler) SubmitVerification(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SubmitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetUserByID(userCtx.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to get user for verification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit verification"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !user.IsVerified {
		if err := h.userRepo.SetVerified(userCtx.UserID); err != nil {
			logrus.WithError(err).Error("failed to set verified")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit verification"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id": userCtx.UserID,
		}).Info("user verified")
	}

	c.JSON(http.StatusOK, gin.H{
		"isVerified": true,
		"message":    "Verification submitted successfully",
	})
}

// GetPayments returns the caller's payment history, newest first
// GET /api/user/payments
func (h *UserHandler) GetPayments(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.paymentRepo.ListByUser(userCtx.UserID)
	if err != nil {
		logrus.WithError(err).Error("failed to list payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	if payments == nil {
		payments = []*models.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}
