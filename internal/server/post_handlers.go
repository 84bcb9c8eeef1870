package server

import (
	"studenthub/internal/models"
	"studenthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The body is multipart form data:
// title, description, category, tags (comma-separated) and an optional
// file attachment.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{
		UserID:      currentUserID(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        c.FormValue("tags"),
	}

	if header, err := c.FormFile("file"); err == nil && header != nil {
		upload, err := headerToUpload(header)
		if err != nil {
			return fail(c, err)
		}
		in.Attachment = upload
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetUserPosts handles GET /api/posts/user/:user_id
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return fail(c, err)
	}

	posts, err := s.postService.ListPostsByAuthor(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// ToggleLike handles POST /api/posts/:post_id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		return fail(c, err)
	}

	liked, likers, err := s.postService.ToggleLike(c.Context(), currentUserID(c), postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": liked,
		"likes": likers,
	})
}

// CreateComment handles POST /api/posts/:post_id/comment
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	comments, err := s.postService.AddComment(c.Context(), currentUserID(c), postID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// UpdatePost handles PUT /api/posts/:post_id. The multipart body carries
// the post's full editable state, same shape as create: title, description,
// category, tags (comma-separated) and an optional replacement file.
// Omitted description/tags fields clear the stored values.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		return fail(c, err)
	}

	in := service.UpdatePostInput{
		UserID:      currentUserID(c),
		PostID:      postID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        c.FormValue("tags"),
	}

	if header, err := c.FormFile("file"); err == nil && header != nil {
		upload, err := headerToUpload(header)
		if err != nil {
			return fail(c, err)
		}
		in.Attachment = upload
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:post_id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "post_id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), postID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
