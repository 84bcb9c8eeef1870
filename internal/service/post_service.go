package service

import (
	"context"
	"strings"

	"studenthub/internal/media"
	"studenthub/internal/models"
	"studenthub/internal/repository"
)

// PostService owns the feed: post CRUD, the like set and the comment
// list, plus attachment handling through the media gateway.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	uploader media.Uploader
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Description string
	Category    string
	Tags        string // comma-separated, normalized on the way in
	Attachment  *media.UploadInput
}

// UpdatePostInput carries a full replacement of a post's editable fields.
// Title/description/category/tags overwrite the stored values wholesale; an
// omitted tags field clears the list. Only the attachment is optional.
type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       string
	Description string
	Category    string
	Tags        string
	Attachment  *media.UploadInput
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	uploader media.Uploader,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		uploader: uploader,
	}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 10000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	// Description is optional; a post can be a bare title plus category.
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, models.NewValidationError("Category is required")
	}

	// The author snapshot is taken once, at creation. Later profile edits
	// do not rewrite it.
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:           in.UserID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		Tags:             models.ParseTags(in.Tags),
		AuthorName:       author.Name,
		AuthorEmail:      author.Email,
		AuthorDepartment: author.Department,
	}

	// Upload before persisting so a gateway failure never leaves a post
	// pointing at a file that was never stored.
	if in.Attachment != nil {
		hosted, err := s.uploader.Upload(ctx, *in.Attachment)
		if err != nil {
			return nil, err
		}
		post.FileURL = hosted.URL
		post.FileType = hosted.FileType
		post.OriginalName = hosted.OriginalName
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.backfillAuthors(ctx, posts)
	return posts, nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	s.backfillAuthors(ctx, posts)
	return posts, nil
}

// UpdatePost replaces a post's editable fields. The author snapshot,
// likes, comments and created_at are never touched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, models.NewValidationError("Category is required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	post.Title = in.Title
	post.Description = in.Description
	post.Category = in.Category
	post.Tags = models.ParseTags(in.Tags)
	if in.Attachment != nil {
		hosted, err := s.uploader.Upload(ctx, *in.Attachment)
		if err != nil {
			return nil, err
		}
		post.FileURL = hosted.URL
		post.FileType = hosted.FileType
		post.OriginalName = hosted.OriginalName
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and returns the new state
// together with the full liker list.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, []uint, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, nil, err
	}
	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return false, nil, err
	}

	likers, err := s.postRepo.ListLikerIDs(ctx, postID)
	if err != nil {
		return false, nil, err
	}
	return !liked, likers, nil
}

// AddComment appends a comment and returns the post's full comment list.
// The text is stored verbatim, empty strings included.
func (s *PostService) AddComment(ctx context.Context, userID, postID uint, text string) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return s.postRepo.ListComments(ctx, postID)
}

// backfillAuthors fills missing author snapshot fields on the way out.
// Posts written before the snapshot existed get the author's current
// profile, or "Unknown" when the account is gone. The rows themselves
// are never rewritten.
func (s *PostService) backfillAuthors(ctx context.Context, posts []models.Post) {
	for i := range posts {
		if posts[i].AuthorName != "" {
			continue
		}
		author, err := s.userRepo.GetByID(ctx, posts[i].UserID)
		if err != nil || author == nil {
			posts[i].AuthorName = "Unknown"
			posts[i].AuthorEmail = ""
			continue
		}
		posts[i].AuthorName = author.Name
		posts[i].AuthorEmail = author.Email
		posts[i].AuthorDepartment = author.Department
	}
}
