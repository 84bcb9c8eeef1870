// Package seed provides helpers to create demo data for development
// databases. Never run it against production.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"studenthub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var departments = []string{
	"Computer Science", "Electrical Engineering", "Mathematics", "Physics",
	"Biology", "Economics", "Psychology", "Design", "History",
}

var categories = []string{
	"notes", "events", "questions", "projects", "internships", "housing", "misc",
}

var tagPool = []string{
	"exam", "study-group", "algorithms", "calculus", "lab", "deadline",
	"freshers", "hackathon", "career", "research", "tutoring", "books",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Every seeded account
// uses the password "password123" so demo logins are easy.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		Name:           gofakeit.Name(),
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		Department:     departments[f.r.Intn(len(departments))],
		Year:           1 + f.r.Intn(4),
		Bio:            gofakeit.Sentence(10),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post authored by user,
// including the author snapshot a live request would take.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	tags := models.TagList{}
	for _, idx := range f.r.Perm(len(tagPool))[:1+f.r.Intn(3)] {
		tags = append(tags, tagPool[idx])
	}

	post := &models.Post{
		UserID:           user.ID,
		Title:            gofakeit.Sentence(5),
		Description:      gofakeit.Paragraph(1, 3, 8, "\n"),
		Category:         categories[f.r.Intn(len(categories))],
		Tags:             tags,
		AuthorName:       user.Name,
		AuthorEmail:      user.Email,
		AuthorDepartment: user.Department,
		// realistic created_at spread over the last 90 days
		CreatedAt: time.Now().Add(-time.Duration(f.r.Intn(90*24)) * time.Hour),
	}

	if f.r.Intn(3) == 0 {
		post.FileURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		post.FileType = "jpeg"
		post.OriginalName = gofakeit.Word() + ".jpg"
	}

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Text:   gofakeit.Sentence(8 + f.r.Intn(10)),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records user liking post. Duplicate likes are ignored, same
// as the live toggle path.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	err := f.db.Create(like).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Run populates the database according to opts.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 60
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.r.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		for _, idx := range f.r.Perm(len(users))[:f.r.Intn(6)] {
			if err := f.CreateLike(users[idx], post); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
		for c := 0; c < f.r.Intn(4); c++ {
			commenter := users[f.r.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
	}
	return nil
}

// Clean removes all seeded data.
func Clean(db *gorm.DB) error {
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
