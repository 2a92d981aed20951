package permissions

import (
	"net/http"
	"testing"

	"github.com/NikKurkov/api-yamdb/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestAdminOrReadOnly(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	moderator := &models.User{ID: 2, Role: models.RoleModerator}
	user := &models.User{ID: 3, Role: models.RoleUser}
	t.Run("safe methods open to everyone", func(t *testing.T) {
		assert.True(t, AdminOrReadOnly(http.MethodGet, models.AnonymousUser))
		assert.True(t, AdminOrReadOnly(http.MethodHead, nil))
		assert.True(t, AdminOrReadOnly(http.MethodOptions, user))
	})
	t.Run("mutations require admin", func(t *testing.T) {
		assert.True(t, AdminOrReadOnly(http.MethodPost, admin))
		assert.False(t, AdminOrReadOnly(http.MethodPost, moderator))
		assert.False(t, AdminOrReadOnly(http.MethodDelete, user))
		assert.False(t, AdminOrReadOnly(http.MethodPatch, models.AnonymousUser))
	})
}

func TestOwnerOrElevated(t *testing.T) {
	author := &models.User{ID: 7, Role: models.RoleUser}
	other := &models.User{ID: 8, Role: models.RoleUser}
	moderator := &models.User{ID: 9, Role: models.RoleModerator}
	admin := &models.User{ID: 10, Role: models.RoleAdmin}
	t.Run("anyone can read", func(t *testing.T) {
		assert.True(t, OwnerOrElevated(http.MethodGet, models.AnonymousUser, author.ID))
	})
	t.Run("any authenticated user can create", func(t *testing.T) {
		assert.True(t, OwnerOrElevated(http.MethodPost, other, 0))
		assert.False(t, OwnerOrElevated(http.MethodPost, models.AnonymousUser, 0))
		assert.False(t, OwnerOrElevated(http.MethodPost, nil, 0))
	})
	t.Run("only owner or elevated roles can mutate", func(t *testing.T) {
		assert.True(t, OwnerOrElevated(http.MethodPatch, author, author.ID))
		assert.True(t, OwnerOrElevated(http.MethodDelete, moderator, author.ID))
		assert.True(t, OwnerOrElevated(http.MethodDelete, admin, author.ID))
		assert.False(t, OwnerOrElevated(http.MethodPatch, other, author.ID))
		assert.False(t, OwnerOrElevated(http.MethodDelete, models.AnonymousUser, author.ID))
	})
}

func TestAdminOnly(t *testing.T) {
	assert.True(t, AdminOnly(&models.User{ID: 1, Role: models.RoleAdmin}))
	assert.False(t, AdminOnly(&models.User{ID: 2, Role: models.RoleModerator}))
	assert.False(t, AdminOnly(&models.User{ID: 3, Role: models.RoleUser}))
	assert.False(t, AdminOnly(models.AnonymousUser))
	assert.False(t, AdminOnly(nil))
}
