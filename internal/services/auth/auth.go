package auth

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UsersStorage interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	Insert(ctx context.Context, username, email, bio string, role models.Role) (*models.User, error)
	SetConfirmationCode(ctx context.Context, userID int64, code string) error
}

type AuthService struct {
	log          *slog.Logger
	storage      UsersStorage
	Mailer       MailProvider
	taskExecutor TaskExecutor
	secret       []byte
	tokenTTL     time.Duration
}

func New(
	log *slog.Logger,
	storage UsersStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      storage,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
	}
}

// newConfirmationCode returns 128 bits of randomness as 32 hex chars.
func newConfirmationCode() string {
	code := uuid.New()
	return hex.EncodeToString(code[:])
}

func (a *AuthService) sendConfirmationEmail(email, username, code string) {
	a.log.Info("sending confirmation email", "email", email)
	err := a.Mailer.Send(
		email,
		"confirmation_code.html",
		map[string]any{
			"username":         username,
			"confirmationCode": code,
		})
	if err != nil {
		a.log.Error("Error sending confirmation email", "errMsg", err.Error())
	}
}

// Signup registers a user or re-issues the confirmation code for an existing
// one. Submitting the exact (email, username) pair of an existing user is
// idempotent; matching only one of the two fields against a different record
// is a conflict scoped to the field that matched.
func (a *AuthService) Signup(ctx context.Context, email, username string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", email, "username", username)
	user, err := a.storage.GetByEmailOrUsername(ctx, email, username)
	if errors.Is(err, storage.ErrNotFound) {
		user, err = a.storage.Insert(ctx, username, email, "", models.RoleUser)
		if errors.Is(err, storage.ErrConflict) {
			// lost a race with a concurrent signup; reload the winner
			user, err = a.storage.GetByEmailOrUsername(ctx, email, username)
		}
	}
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user.Email != email || user.Username != username {
		log.Info("signup conflicts with an existing user")
		if user.Email == email {
			return nil, ErrEmailExists
		}
		return nil, ErrUsernameExists
	}
	code := newConfirmationCode()
	if err := a.storage.SetConfirmationCode(ctx, user.ID, code); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	user.ConfirmationCode = code
	a.taskExecutor.Add(func() {
		a.sendConfirmationEmail(email, username, code)
	})
	return user, nil
}

// IssueToken exchanges a valid confirmation code for a bearer token.
func (a *AuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	const op = "auth.AuthService.IssueToken"
	log := a.log.With("op", op, "username", username)
	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if user.ConfirmationCode == "" ||
		subtle.ConstantTimeCompare([]byte(user.ConfirmationCode), []byte(confirmationCode)) != 1 {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidConfirmationCode
	}
	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(a.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token into the user it was issued to.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		log.Info("invalid token", "errMsg", fmt.Sprint(err))
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.storage.Get(ctx, int64(uid))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("token refers to a deleted user", "uid", int64(uid))
			return nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}
