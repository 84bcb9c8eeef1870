// Package service contains the application's business logic.
package service

import (
	"context"
	"fmt"
	"time"

	"studenthub/internal/auth"
	"studenthub/internal/mailer"
	"studenthub/internal/middleware"
	"studenthub/internal/models"
	"studenthub/internal/repository"
	"studenthub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService owns account lifecycle: registration, login sessions,
// profile edits and the password reset loop.
type AuthService struct {
	userRepo        repository.UserRepository
	tokens          *auth.TokenService
	mail            mailer.Mailer
	frontendBaseURL string
}

type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Year       int    `json:"year"`
	Bio        string `json:"bio"`
}

// UpdateProfileInput carries a partial profile edit. Nil pointers mean
// "leave unchanged"; at least one field must be set.
type UpdateProfileInput struct {
	Name           *string `json:"name"`
	Department     *string `json:"department"`
	Year           *int    `json:"year"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenService,
	mail mailer.Mailer,
	frontendBaseURL string,
) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		mail:            mail,
		frontendBaseURL: frontendBaseURL,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if len(in.Bio) > 500 {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	year := in.Year
	if year == 0 {
		year = 1
	}
	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hashed),
		Department: in.Department,
		Year:       year,
		Bio:        in.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and opens a session. A missing account and a
// wrong password fail identically so the endpoint does not leak which
// addresses are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return "", nil, models.NewUnauthorizedError("Invalid email or password")
	}

	user.IsOnline = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, "", auth.SessionTTL)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	if in.Name == nil && in.Department == nil && in.Year == nil && in.Bio == nil && in.ProfilePicture == nil {
		return nil, models.NewValidationError("No fields to update")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = *in.Name
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.Year != nil {
		if *in.Year < 1 || *in.Year > 8 {
			return nil, models.NewValidationError("Year must be between 1 and 8")
		}
		user.Year = *in.Year
	}
	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout records the user going offline. The session token stays valid
// until it expires; presence is the only server-side state a session has.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	user.IsOnline = false
	user.LastSeen = &now
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) SetProfilePicture(ctx context.Context, userID uint, url string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfilePicture = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword mails a reset link when the address is registered. It
// reports success either way so the endpoint cannot be used to probe for
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := s.tokens.Issue(user.ID, auth.PurposeReset, auth.ResetTTL)
	if err != nil {
		return models.NewInternalError(err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendBaseURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. "+
			"Follow the link below within the next hour to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		user.Name, link,
	)
	if err := s.mail.Send(ctx, user.Email, "Reset your password", body); err != nil {
		// The caller still gets a success response; log and move on.
		middleware.Logger.ErrorContext(ctx, "failed to send password reset email", "error", err, "user_id", user.ID)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Validate(token, auth.PurposeReset)
	if err != nil {
		return models.NewUnauthorizedError("Invalid or expired reset token")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	// A token whose subject no longer exists is indistinguishable from an
	// invalid token to the caller.
	user, err := s.userRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		return models.NewUnauthorizedError("Invalid or expired reset token")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hashed)
	return s.userRepo.Update(ctx, user)
}
