package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
)

type CategoriesStorage interface {
	List(ctx context.Context, name string, filters filters.Filters) ([]models.Category, int, error)
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type GenresStorage interface {
	List(ctx context.Context, name string, filters filters.Filters) ([]models.Genre, int, error)
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, f filters.Filters) ([]models.Category, filters.Metadata, error) {
	const op = "catalog.CatalogService.ListCategories"
	log := s.log.With("op", op, "search", search)
	categories, total, err := s.categories.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return categories, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "slug", slug)
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("category already exists")
			return nil, ErrCategoryExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, f filters.Filters) ([]models.Genre, filters.Metadata, error) {
	const op = "catalog.CatalogService.ListGenres"
	log := s.log.With("op", op, "search", search)
	genres, total, err := s.genres.List(ctx, search, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return genres, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "slug", slug)
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
