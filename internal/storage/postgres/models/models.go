package models

import "github.com/NikKurkov/api-yamdb/internal/storage/postgres"

type Models struct {
	Categories *CategoryModel
	Genres     *GenreModel
	Titles     *TitleModel
	Reviews    *ReviewModel
	Comments   *CommentModel
	Users      *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Categories: &CategoryModel{db.Conn},
		Genres:     &GenreModel{db.Conn},
		Titles:     &TitleModel{db.Conn},
		Reviews:    &ReviewModel{db.Conn},
		Comments:   &CommentModel{db.Conn},
		Users:      &UserModel{db.Conn},
	}
}
