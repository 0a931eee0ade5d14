package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/pkg/validator"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t != nil {
		nt.Valid = true
		nt.Time = *t
	} else {
		nt.Valid = false
	}
	return nil
}

// PreferredLanguage is the user's preferred UI language
type PreferredLanguage string

const (
	LanguageEnglish PreferredLanguage = "English"
	LanguageChinese PreferredLanguage = "Chinese"
)

// nameRegex allows letters and spaces only
var nameRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// User represents a registered user. Email is immutable after registration
// and is_verified only ever transitions false -> true.
type User struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	Email             string            `json:"email" db:"email"`
	PasswordHash      string            `json:"-" db:"password_hash"` // Never expose in JSON
	FirstName         string            `json:"firstName" db:"first_name"`
	LastName          string            `json:"lastName" db:"last_name"`
	PhoneNumber       NullString        `json:"phoneNumber,omitempty" db:"phone_number"`
	PreferredLanguage PreferredLanguage `json:"preferredLanguage" db:"preferred_language"`
	IsVerified        bool              `json:"isVerified" db:"is_verified"`
	EmergencyContact  NullString        `json:"emergencyContact,omitempty" db:"emergency_contact"`
	EmergencyPhone    NullString        `json:"emergencyPhone,omitempty" db:"emergency_phone"`
	Rating            float64           `json:"rating" db:"rating"`
	TotalRatings      int               `json:"totalRatings" db:"total_ratings"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
	LastLoginAt       NullTime          `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// Validate validates the RegisterRequest
func (req *RegisterRequest) Validate() error {
	if err := validateName(req.FirstName, "firstName"); err != nil {
		return err
	}
	if err := validateName(req.LastName, "lastName"); err != nil {
		return err
	}
	return nil
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the request to update the profile.
// Email is absent on purpose: it cannot be changed. The server-owned
// fields (isVerified, rating, totalRatings) are likewise not accepted.
type UpdateProfileRequest struct {
	FirstName         string `json:"firstName" binding:"required"`
	LastName          string `json:"lastName" binding:"required"`
	PhoneNumber       string `json:"phoneNumber"`
	PreferredLanguage string `json:"preferredLanguage" binding:"required"`
	EmergencyContact  string `json:"emergencyContact"`
	EmergencyPhone    string `json:"emergencyPhone"`
}

// Validate validates the UpdateProfileRequest field by field
func (req *UpdateProfileRequest) Validate() error {
	if err := validateName(req.FirstName, "firstName"); err != nil {
		return err
	}
	if err := validateName(req.LastName, "lastName"); err != nil {
		return err
	}

	lang := PreferredLanguage(req.PreferredLanguage)
	if lang != LanguageEnglish && lang != LanguageChinese {
		return errors.New("preferredLanguage must be English or Chinese")
	}

	phoneValidator := validator.NewPhoneValidator()
	if err := phoneValidator.ValidateOptional(req.PhoneNumber); err != nil {
		return errors.New("phoneNumber must be +64 followed by 8-9 digits")
	}
	if err := phoneValidator.ValidateOptional(req.EmergencyPhone); err != nil {
		return errors.New("emergencyPhone must be +64 followed by 8-9 digits")
	}

	if req.EmergencyContact != "" {
		if len(req.EmergencyContact) < 2 || len(req.EmergencyContact) > 100 {
			return errors.New("emergencyContact must be between 2 and 100 characters")
		}
	}

	return nil
}

// SubmitVerificationRequest carries the document references for the
// one-way identity verification workflow
type SubmitVerificationRequest struct {
	DocumentReferences string `json:"documentReferences" binding:"required"`
}

// Validate validates the SubmitVerificationRequest
func (req *SubmitVerificationRequest) Validate() error {
	if len(req.DocumentReferences) < 10 || len(req.DocumentReferences) > 500 {
		return errors.New("documentReferences must be between 10 and 500 characters")
	}
	return nil
}

func validateName(name, field string) error {
	if name == "" {
		return errors.New(field + " is required")
	}
	if len(name) > 50 {
		return errors.New(field + " must be at most 50 characters")
	}
	if !nameRegex.MatchString(name) {
		return errors.New(field + " can only contain letters and spaces")
	}
	return nil
}
