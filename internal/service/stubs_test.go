package service

import (
	"context"
	"errors"
	"testing"

	"studenthub/internal/media"
	"studenthub/internal/models"
)

type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:     func(context.Context, *models.User) error { return nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
	}
}

type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	listFn         func(context.Context) ([]models.Post, error)
	listByAuthorFn func(context.Context, uint) ([]models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
	isLikedFn      func(context.Context, uint, uint) (bool, error)
	likeFn         func(context.Context, uint, uint) error
	unlikeFn       func(context.Context, uint, uint) error
	listLikerIDsFn func(context.Context, uint) ([]uint, error)
	addCommentFn   func(context.Context, *models.Comment) error
	listCommentsFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) ListLikerIDs(ctx context.Context, postID uint) ([]uint, error) {
	return s.listLikerIDsFn(ctx, postID)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listCommentsFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(context.Context, *models.Post) error { return nil },
		getByIDFn:      func(context.Context, uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:         func(context.Context) ([]models.Post, error) { return nil, nil },
		listByAuthorFn: func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		updateFn:       func(context.Context, *models.Post) error { return nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		isLikedFn:      func(context.Context, uint, uint) (bool, error) { return false, nil },
		likeFn:         func(context.Context, uint, uint) error { return nil },
		unlikeFn:       func(context.Context, uint, uint) error { return nil },
		listLikerIDsFn: func(context.Context, uint) ([]uint, error) { return []uint{}, nil },
		addCommentFn:   func(context.Context, *models.Comment) error { return nil },
		listCommentsFn: func(context.Context, uint) ([]models.Comment, error) { return []models.Comment{}, nil },
	}
}

type uploaderStub struct {
	uploadFn func(context.Context, media.UploadInput) (*media.Result, error)
}

func (s *uploaderStub) Upload(ctx context.Context, in media.UploadInput) (*media.Result, error) {
	return s.uploadFn(ctx, in)
}

type mailerStub struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mailerStub) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
