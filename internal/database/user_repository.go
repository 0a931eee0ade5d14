package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skybridge/travel-assist-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new user with a hashed password
func (r *UserRepository) CreateUser(email, passwordHash, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		PreferredLanguage: models.LanguageEnglish,
		IsVerified:        false,
		Rating:            0,
		TotalRatings:      0,
		CreatedAt:         time.Now(),
	}

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			preferred_language, is_verified, rating, total_ratings, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.PreferredLanguage,
		user.IsVerified,
		user.Rating,
		user.TotalRatings,
		user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, first_name, last_name, phone_number,
		       preferred_language, is_verified, emergency_contact, emergency_phone,
		       rating, total_ratings, created_at, last_login_at
		FROM users
		WHERE email = $1
	`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, first_name, last_name, phone_number,
		       preferred_language, is_verified, emergency_contact, emergency_phone,
		       rating, total_ratings, created_at, last_login_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// UpdateProfile updates the writable profile fields. Email, verification
// state and ratings are not touched here.
func (r *UserRepository) UpdateProfile(id uuid.UUID, req *models.UpdateProfileRequest) error {
	query := `
		UPDATE users
		SET first_name = $1,
		    last_name = $2,
		    phone_number = NULLIF($3, ''),
		    preferred_language = $4,
		    emergency_contact = NULLIF($5, ''),
		    emergency_phone = NULLIF($6, '')
		WHERE id = $7
	`

	result, err := r.db.Exec(
		query,
		req.FirstName,
		req.LastName,
		req.PhoneNumber,
		req.PreferredLanguage,
		req.EmergencyContact,
		req.EmergencyPhone,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// SetVerified marks the user as identity-verified. One-way: there is no
// query that sets is_verified back to false.
func (r *UserRepository) SetVerified(id uuid.UUID) error {
	query := `
		UPDATE users
		SET is_verified = TRUE
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to set verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpdateLastLogin stamps the login time
func (r *UserRepository) UpdateLastLogin(id uuid.UUID) error {
	query := `
		UPDATE users
		SET last_login_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// CountUsers returns the total number of users
func (r *UserRepository) CountUsers() (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM users`

	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
