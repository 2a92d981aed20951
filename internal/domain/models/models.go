package models

import (
	"time"

	"github.com/NikKurkov/api-yamdb/internal/domain/fields"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// IsAdmin reports full administrative rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsElevated reports rights to moderate other users' content.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleModerator
}

type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Year        *int32        `json:"year"`        // release year, unknown for some imported rows
	Description string        `json:"description"` // empty string when not set
	Rating      fields.Rating `json:"rating"`      // mean review score, null without reviews
	Genres      []Genre       `json:"genre"`
	Category    *Category     `json:"category"`
}

type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title"`
	Text     string    `json:"text"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"` // username
	Score    int32     `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review"`
	Text     string    `json:"text"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"` // username
	PubDate  time.Time `json:"pub_date"`
}

type User struct {
	ID               int64     `json:"-"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Bio              string    `json:"bio"`
	Role             Role      `json:"role"`
	ConfirmationCode string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}
