package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersStorage struct {
	users  []models.User
	nextID int64
	// lookupMisses makes GetByEmailOrUsername report not-found that many
	// times, simulating a signup racing with a concurrent insert.
	lookupMisses int
}

func (f *fakeUsersStorage) Get(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	if f.lookupMisses > 0 {
		f.lookupMisses--
		return nil, storage.ErrNotFound
	}
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsersStorage) Insert(ctx context.Context, username, email, bio string, role models.Role) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	user := models.User{ID: f.nextID, Username: username, Email: email, Bio: bio, Role: role}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeUsersStorage) SetConfirmationCode(ctx context.Context, userID int64, code string) error {
	for i, u := range f.users {
		if u.ID == userID {
			f.users[i].ConfirmationCode = code
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	f.sent = append(f.sent, recipient)
	return nil
}

// syncExecutor runs tasks inline so tests can assert on their effects.
type syncExecutor struct{}

func (syncExecutor) Add(task func()) { task() }

func newTestService() (*AuthService, *fakeUsersStorage, *fakeMailer) {
	usersStorage := &fakeUsersStorage{}
	mailer := &fakeMailer{}
	svc := New(slog.Default(), usersStorage, mailer, syncExecutor{}, "test-secret", time.Hour)
	return svc, usersStorage, mailer
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	t.Run("new user gets a confirmation code", func(t *testing.T) {
		svc, usersStorage, mailer := newTestService()
		user, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		assert.Len(t, user.ConfirmationCode, 32)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
		assert.Len(t, usersStorage.users, 1)
	})
	t.Run("repeat signup with the same pair is idempotent", func(t *testing.T) {
		svc, usersStorage, mailer := newTestService()
		first, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		second, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.ConfirmationCode, second.ConfirmationCode)
		assert.Len(t, usersStorage.users, 1)
		assert.Len(t, mailer.sent, 2)
	})
	t.Run("partial match conflicts name the colliding field", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		_, err = svc.Signup(ctx, "alice@example.com", "bob")
		assert.ErrorIs(t, err, ErrEmailExists)
		_, err = svc.Signup(ctx, "bob@example.com", "alice")
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
	t.Run("losing an insert race to the same pair stays idempotent", func(t *testing.T) {
		svc, usersStorage, _ := newTestService()
		// the record is committed between our lookup and our insert
		usersStorage.users = append(usersStorage.users, models.User{
			ID: 42, Username: "alice", Email: "alice@example.com", Role: models.RoleUser,
		})
		usersStorage.lookupMisses = 1
		user, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.NotEmpty(t, user.ConfirmationCode)
	})
}

func TestIssueToken(t *testing.T) {
	ctx := context.Background()
	t.Run("valid code yields a token for the right user", func(t *testing.T) {
		svc, _, _ := newTestService()
		user, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		token, err := svc.IssueToken(ctx, "alice", user.ConfirmationCode)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		authenticated, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, authenticated.ID)
		assert.Equal(t, "alice", authenticated.Username)
	})
	t.Run("wrong code is rejected", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		_, err = svc.IssueToken(ctx, "alice", "deadbeefdeadbeefdeadbeefdeadbeef")
		assert.ErrorIs(t, err, ErrInvalidConfirmationCode)
	})
	t.Run("re-signup invalidates the previous code", func(t *testing.T) {
		svc, _, _ := newTestService()
		first, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		_, err = svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		_, err = svc.IssueToken(ctx, "alice", first.ConfirmationCode)
		assert.ErrorIs(t, err, ErrInvalidConfirmationCode)
	})
	t.Run("unknown username", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.IssueToken(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
	t.Run("token signed with another secret", func(t *testing.T) {
		svc, usersStorage, _ := newTestService()
		user, err := svc.Signup(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		other := New(slog.Default(), usersStorage, &fakeMailer{}, syncExecutor{}, "other-secret", time.Hour)
		token, err := other.IssueToken(ctx, "alice", user.ConfirmationCode)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
