package main

import (
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/api/tasks"
	"github.com/NikKurkov/api-yamdb/internal/config"
	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services"
	"github.com/NikKurkov/api-yamdb/internal/storage/postgres"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	services     *services.Services
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	bgTasks      *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	validator.Register(v)
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	app := &Application{
		cfg:          cfg,
		log:          log,
		validator:    v,
		queryDecoder: queryDecoder,
		services:     services.New(log, cfg, storage, bgTasks),
		bgTasks:      bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
