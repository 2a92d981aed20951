package permissions

import (
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/domain/models"
)

// IsSafeMethod reports whether the request method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isAuthenticated(user *models.User) bool {
	return user != nil && !user.IsAnonymous()
}

// AdminOrReadOnly allows safe methods to anyone and mutations to admins only.
// Guards categories, genres and titles.
func AdminOrReadOnly(method string, user *models.User) bool {
	if IsSafeMethod(method) {
		return true
	}
	return isAuthenticated(user) && user.Role.IsAdmin()
}

// OwnerOrElevated allows safe methods to anyone, creation to any authenticated
// user and mutations of an existing resource to its author, moderators and
// admins. Guards reviews and comments. ownerID is the author of the resource
// being mutated; pass 0 on create, when there is no owner yet.
func OwnerOrElevated(method string, user *models.User, ownerID int64) bool {
	if IsSafeMethod(method) {
		return true
	}
	if !isAuthenticated(user) {
		return false
	}
	if method == http.MethodPost {
		return true
	}
	return user.ID == ownerID || user.Role.IsElevated()
}

// AdminOnly requires an authenticated admin for every method.
// Guards user administration.
func AdminOnly(user *models.User) bool {
	return isAuthenticated(user) && user.Role.IsAdmin()
}
