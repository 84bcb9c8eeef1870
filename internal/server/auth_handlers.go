package server

import (
	"io"
	"mime/multipart"
	"strings"

	"studenthub/internal/media"
	"studenthub/internal/models"
	"studenthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, models.NewValidationError("Email and password are required"))
	}

	token, user, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GetMyProfile handles GET /api/auth/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.authService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/auth/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.UpdateProfile(c.Context(), currentUserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.Context(), currentUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// identical whether or not the address is registered.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return fail(c, models.NewValidationError("Email is required"))
	}

	if err := s.authService.ForgotPassword(c.Context(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "If that email is registered, a reset link has been sent"})
}

// ResetPassword handles POST /api/auth/reset-password/:token
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.ResetPassword(c.Context(), token, req.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

// UploadProfilePicture handles POST /api/auth/profile-picture
func (s *Server) UploadProfilePicture(c *fiber.Ctx) error {
	in, err := formFileToUpload(c, "file")
	if err != nil {
		return fail(c, err)
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return fail(c, models.NewValidationError("Profile picture must be an image"))
	}

	hosted, err := s.uploader.Upload(c.Context(), *in)
	if err != nil {
		return fail(c, err)
	}

	user, err := s.authService.SetProfilePicture(c.Context(), currentUserID(c), hosted.URL)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// formFileToUpload reads a multipart file field into an upload input.
func formFileToUpload(c *fiber.Ctx, field string) (*media.UploadInput, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, models.NewValidationError("No file uploaded")
	}
	return headerToUpload(header)
}

func headerToUpload(header *multipart.FileHeader) (*media.UploadInput, error) {
	f, err := header.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &media.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
