package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=2,max=150"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// AuthService owns registration, email verification, login and password
// resets. Emails are best effort: a failed send is logged and the operation
// still succeeds.
type AuthService struct {
	users    repositories.UserRepositoryImpl
	mailer   EmailSender
	validate *validator.Validate
	appName  string
	appURL   string
}

func NewAuthService(users repositories.UserRepositoryImpl, mailer EmailSender, appName, appURL string) *AuthService {
	if mailer == nil {
		mailer = &LogMailer{}
	}
	return &AuthService{
		users:    users,
		mailer:   mailer,
		validate: validator.New(),
		appName:  appName,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

func (s *AuthService) link(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", s.appURL, path, url.QueryEscape(token))
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, expires, err := helpers.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.users.SaveVerificationToken(ctx, user.ID, &token, &expires); err != nil {
		return fmt.Errorf("save verification token: %w", err)
	}
	body := BuildVerificationEmailBody(s.appName, user.Name, s.link("/verify-email", token), helpers.VerificationTokenTTL)
	if err := s.mailer.SendHTMLEmail(user.Email, "Verify your email", body); err != nil {
		log.Printf("WARN AuthService.sendVerification: email to %s: %v", user.Email, err)
	}
	return nil
}

// Register creates an unverified supplier account and sends the verification
// email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s: %w", in.Email, helpers.ErrConflict)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleSupplier,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email %s: %w", in.Email, helpers.ErrConflict)
		}
		log.Printf("AuthService.Register: Failed to create user %s: %v", in.Email, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		log.Printf("WARN AuthService.Register: %v", err)
	}
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, helpers.NewValidationError("token is required", map[string]string{"token": "token is required"})
	}
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, helpers.NewValidationError("verification link is invalid or has expired", nil)
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("mark email verified: %w", err)
	}
	user.EmailVerified = true
	return user, nil
}

// ResendVerification always reports success so callers cannot probe which
// addresses are registered.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

// Login checks credentials. Unknown email and wrong password are the same
// error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(password)) {
		return nil, helpers.ErrUnauthorized
	}
	if !user.EmailVerified && !user.IsAdmin() {
		return nil, fmt.Errorf("email not verified: %w", helpers.ErrForbidden)
	}
	return user, nil
}

// ForgotPassword sends a reset link when the account exists. It reports
// success either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		log.Printf("AuthService.ForgotPassword: no account for %s", email)
		return nil
	}
	token, expires, err := helpers.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.users.SavePasswordResetToken(ctx, user.ID, &token, &expires); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	body := BuildPasswordResetEmailBody(s.appName, user.Name, s.link("/reset-password", token), helpers.PasswordResetTokenTTL)
	if err := s.mailer.SendHTMLEmail(user.Email, "Reset your password", body); err != nil {
		log.Printf("WARN AuthService.ForgotPassword: email to %s: %v", user.Email, err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return helpers.ValidationFrom(err)
	}
	user, err := s.users.FindByPasswordResetToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if user == nil {
		return helpers.NewValidationError("reset link is invalid or has expired", nil)
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.users.ClearPasswordResetToken(ctx, user.ID); err != nil {
		log.Printf("WARN AuthService.ResetPassword: clear token for %s: %v", user.ID, err)
	}
	return nil
}
