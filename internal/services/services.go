package services

import (
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/config"
	"github.com/NikKurkov/api-yamdb/internal/mails"
	"github.com/NikKurkov/api-yamdb/internal/services/auth"
	"github.com/NikKurkov/api-yamdb/internal/services/catalog"
	"github.com/NikKurkov/api-yamdb/internal/services/reviews"
	"github.com/NikKurkov/api-yamdb/internal/services/titles"
	"github.com/NikKurkov/api-yamdb/internal/services/users"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres/models"
)

type Services struct {
	Catalog *catalog.CatalogService
	Titles  *titles.TitleService
	Reviews *reviews.ReviewService
	Users   *users.UserService
	Auth    *auth.AuthService
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Services {
	m := models.New(storage)
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	return &Services{
		Catalog: catalog.New(log, m.Categories, m.Genres),
		Titles:  titles.New(log, m.Titles, m.Categories, m.Genres),
		Reviews: reviews.New(log, m.Reviews, m.Comments, m.Titles),
		Users:   users.New(log, m.Users),
		Auth:    auth.New(log, m.Users, mailer, taskExecutor, cfg.AppSecret, cfg.TokenTTL),
	}
}
