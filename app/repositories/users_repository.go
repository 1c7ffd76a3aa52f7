package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

// prepareNewUser hashes the plain password and clears token fields.
func prepareNewUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	hashPass, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v", user.Email, err)
		return err
	}
	user.Password = string(hashPass)

	if user.Role == "" {
		user.Role = models.RoleSupplier
	}
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := prepareNewUser(user); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) updateColumns(ctx context.Context, userID, what string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to %s for user %s: %w", what, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SaveVerificationToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	return r.updateColumns(ctx, userID, "save verification token", map[string]interface{}{
		"verification_token":   token,
		"verification_expires": expiresAt,
	})
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	user, err := r.first(ctx, "verification_token = ? AND verification_expires > ?", token, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to find user by verification token: %w", err)
	}
	return user, nil
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.updateColumns(ctx, userID, "mark email verified", map[string]interface{}{
		"email_verified":       true,
		"email_verified_at":    time.Now(),
		"verification_token":   nil,
		"verification_expires": nil,
	})
}

func (r *userRepository) SavePasswordResetToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	return r.updateColumns(ctx, userID, "save password reset token", map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expiresAt,
	})
}

func (r *userRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	user, err := r.first(ctx, "password_reset_token = ? AND password_reset_expires > ?", token, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to find user by password reset token: %w", err)
	}
	return user, nil
}

func (r *userRepository) ClearPasswordResetToken(ctx context.Context, userID string) error {
	return r.updateColumns(ctx, userID, "clear password reset token", map[string]interface{}{
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	return r.updateColumns(ctx, userID, "update password", map[string]interface{}{
		"password": newPasswordHash,
	})
}
