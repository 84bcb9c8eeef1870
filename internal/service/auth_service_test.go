package service

import (
	"context"
	"strings"
	"testing"

	"studenthub/internal/auth"
	"studenthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret-for-auth-service")
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 1
			created = u
			return nil
		}
		svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "http://localhost:3000")

		user, err := svc.Register(context.Background(), RegisterInput{
			Name:       "Jordan Park",
			Email:      "jordan@university.edu",
			Password:   "hunter2hunter2",
			Department: "CS",
			Year:       2,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
		require.NotNil(t, created)
		// Stored password is a bcrypt hash of the input, never the input.
		assert.NotEqual(t, "hunter2hunter2", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2hunter2")))
	})

	t.Run("Year Defaults To One", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			created = u
			return nil
		}
		svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "")

		_, err := svc.Register(context.Background(), RegisterInput{
			Name:     "Jordan",
			Email:    "jordan@university.edu",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, created.Year)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), newTestTokens(), &mailerStub{}, "")

		cases := []RegisterInput{
			{Name: "", Email: "a@b.com", Password: "longenough1"},
			{Name: "Jordan", Email: "not-an-email", Password: "longenough1"},
			{Name: "Jordan", Email: "a@b.com", Password: "short"},
			{Name: "Jordan", Email: "a@b.com", Password: "longenough1", Bio: strings.Repeat("x", 501)},
		}
		for _, in := range cases {
			_, err := svc.Register(context.Background(), in)
			assertValidationError(t, err)
		}
	})

	t.Run("Duplicate Email Propagates Conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(context.Context, *models.User) error {
			return models.NewConflictError("Email already registered")
		}
		svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "")

		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Jordan", Email: "a@b.com", Password: "longenough1",
		})
		assertAppError(t, err, models.CodeConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	makeRepo := func() *userRepoStub {
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			if email == "known@university.edu" {
				return &models.User{ID: 7, Email: email, Password: string(hashed)}, nil
			}
			return nil, nil
		}
		return repo
	}

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		repo := makeRepo()
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		tokens := newTestTokens()
		svc := NewAuthService(repo, tokens, &mailerStub{}, "")

		token, user, err := svc.Login(context.Background(), "known@university.edu", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		require.NotNil(t, saved)
		assert.True(t, saved.IsOnline)

		claims, err := tokens.Validate(token, "")
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID())
	})

	t.Run("Unknown Email And Wrong Password Fail Identically", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(makeRepo(), newTestTokens(), &mailerStub{}, "")

		_, _, errUnknown := svc.Login(context.Background(), "ghost@university.edu", "whatever")
		_, _, errWrongPw := svc.Login(context.Background(), "known@university.edu", "wrong")

		assertAppError(t, errUnknown, models.CodeUnauthorized)
		assertAppError(t, errWrongPw, models.CodeUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("No Fields Rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), newTestTokens(), &mailerStub{}, "")
		_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{})
		assertValidationError(t, err)
	})

	t.Run("Partial Update Leaves Other Fields", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Old Name", Department: "CS", Year: 2, Bio: "old bio"}, nil
		}
		svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "")

		user, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
			Bio: strPtr("new bio"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new bio", user.Bio)
		assert.Equal(t, "Old Name", user.Name)
		assert.Equal(t, "CS", user.Department)
		assert.Equal(t, 2, user.Year)
	})

	t.Run("Profile Picture URL", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Jordan"}, nil
		}
		svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "")

		user, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
			ProfilePicture: strPtr("https://cdn.example.com/avatar.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/avatar.png", user.ProfilePicture)
		assert.Equal(t, "Jordan", user.Name)
	})

	t.Run("Invalid Year", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), newTestTokens(), &mailerStub{}, "")
		_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{Year: intPtr(0)})
		assertValidationError(t, err)
	})

	t.Run("Bio Too Long", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), newTestTokens(), &mailerStub{}, "")
		_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{
			Bio: strPtr(strings.Repeat("x", 501)),
		})
		assertValidationError(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, IsOnline: true}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewAuthService(repo, newTestTokens(), &mailerStub{}, "")

	require.NoError(t, svc.Logout(context.Background(), 4))
	require.NotNil(t, saved)
	assert.False(t, saved.IsOnline)
	require.NotNil(t, saved.LastSeen)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Parallel()

	t.Run("Known Address Gets Reset Link", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 9, Name: "Jordan", Email: email}, nil
		}
		mail := &mailerStub{}
		tokens := newTestTokens()
		svc := NewAuthService(repo, tokens, mail, "https://hub.example.com")

		require.NoError(t, svc.ForgotPassword(context.Background(), "jordan@university.edu"))
		require.Len(t, mail.sent, 1)
		assert.Equal(t, "jordan@university.edu", mail.sent[0].to)
		assert.Contains(t, mail.sent[0].body, "https://hub.example.com/reset-password/")

		// The embedded token is reset-scoped, never a session token.
		parts := strings.Split(mail.sent[0].body, "/reset-password/")
		require.Len(t, parts, 2)
		token := strings.Fields(parts[1])[0]
		_, err := tokens.Validate(token, auth.PurposeReset)
		assert.NoError(t, err)
		_, err = tokens.Validate(token, "")
		assert.Error(t, err)
	})

	t.Run("Unknown Address Is Silent", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByEmailFn = func(context.Context, string) (*models.User, error) { return nil, nil }
		mail := &mailerStub{}
		svc := NewAuthService(repo, newTestTokens(), mail, "")

		require.NoError(t, svc.ForgotPassword(context.Background(), "ghost@university.edu"))
		assert.Empty(t, mail.sent)
	})

	t.Run("Mailer Failure Still Reports Success", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 9, Email: email}, nil
		}
		mail := &mailerStub{err: assert.AnError}
		svc := NewAuthService(repo, newTestTokens(), mail, "")

		assert.NoError(t, svc.ForgotPassword(context.Background(), "jordan@university.edu"))
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		tokens := newTestTokens()
		token, err := tokens.Issue(3, auth.PurposeReset, auth.ResetTTL)
		require.NoError(t, err)

		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Password: "old-hash"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewAuthService(repo, tokens, &mailerStub{}, "")

		require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))
		require.NotNil(t, saved)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("new-password-1")))
	})

	t.Run("Session Token Rejected", func(t *testing.T) {
		t.Parallel()
		tokens := newTestTokens()
		sessionToken, err := tokens.Issue(3, "", auth.SessionTTL)
		require.NoError(t, err)

		svc := NewAuthService(noopUserRepo(), tokens, &mailerStub{}, "")
		err = svc.ResetPassword(context.Background(), sessionToken, "new-password-1")
		assertAppError(t, err, models.CodeUnauthorized)
	})

	t.Run("Weak Password Rejected", func(t *testing.T) {
		t.Parallel()
		tokens := newTestTokens()
		token, err := tokens.Issue(3, auth.PurposeReset, auth.ResetTTL)
		require.NoError(t, err)

		svc := NewAuthService(noopUserRepo(), tokens, &mailerStub{}, "")
		err = svc.ResetPassword(context.Background(), token, "short")
		assertValidationError(t, err)
	})

	t.Run("Deleted Account Looks Like Invalid Token", func(t *testing.T) {
		t.Parallel()
		tokens := newTestTokens()
		token, err := tokens.Issue(3, auth.PurposeReset, auth.ResetTTL)
		require.NoError(t, err)

		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewAuthService(repo, tokens, &mailerStub{}, "")

		err = svc.ResetPassword(context.Background(), token, "new-password-1")
		assertAppError(t, err, models.CodeUnauthorized)
	})
}
