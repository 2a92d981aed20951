package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
)

type UsersStorage interface {
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, username, email, bio string, role models.Role) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UserService {
	return &UserService{log: log, storage: storage}
}

// UpdateInput carries only the fields present in a PATCH body.
type UpdateInput struct {
	Username *string
	Email    *string
	Bio      *string
	Role     *models.Role
}

func (s *UserService) List(ctx context.Context, search string, f filters.Filters) ([]models.User, filters.Metadata, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op, "search", search)
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return users, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, username, email, bio string, role models.Role) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", username)
	if role == "" {
		role = models.RoleUser
	}
	user, err := s.storage.Insert(ctx, username, email, bio, role)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

// Update applies a partial update. allowRoleChange is false for self-service
// updates: a user cannot promote themselves.
func (s *UserService) Update(ctx context.Context, username string, input UpdateInput, allowRoleChange bool) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil && allowRoleChange {
		user.Role = *input.Role
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("username or email already taken")
			return nil, ErrUserExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
