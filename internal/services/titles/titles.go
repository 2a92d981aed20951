package titles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
)

type TitlesStorage interface {
	List(ctx context.Context, filter filters.TitleFilter, f filters.Filters) ([]models.Title, int, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Insert(ctx context.Context, name string, year *int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Update(ctx context.Context, id int64, name string, year *int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CategoriesProvider interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenresProvider interface {
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
}

type TitleService struct {
	log        *slog.Logger
	storage    TitlesStorage
	categories CategoriesProvider
	genres     GenresProvider
}

func New(log *slog.Logger, storage TitlesStorage, categories CategoriesProvider, genres GenresProvider) *TitleService {
	return &TitleService{
		log:        log,
		storage:    storage,
		categories: categories,
		genres:     genres,
	}
}

type TitleInput struct {
	Name         string
	Year         *int32
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// UpdateInput carries only the fields present in a PATCH body.
type UpdateInput struct {
	Name         *string
	Year         *int32
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

func (s *TitleService) List(ctx context.Context, filter filters.TitleFilter, f filters.Filters) ([]models.Title, filters.Metadata, error) {
	const op = "titles.TitleService.List"
	log := s.log.With("op", op)
	titles, total, err := s.storage.List(ctx, filter, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return titles, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "titles.TitleService.Get"
	log := s.log.With("op", op, "id", id)
	title, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}
	return &category.ID, nil
}

func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.genres.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrUnknownGenre
			}
			return nil, err
		}
		ids = append(ids, genre.ID)
	}
	return ids, nil
}

func (s *TitleService) Create(ctx context.Context, input TitleInput) (*models.Title, error) {
	const op = "titles.TitleService.Create"
	log := s.log.With("op", op, "name", input.Name)
	categoryID, err := s.resolveCategory(ctx, input.CategorySlug)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, input.GenreSlugs)
	if err != nil {
		return nil, err
	}
	title, err := s.storage.Insert(ctx, input.Name, input.Year, input.Description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) Update(ctx context.Context, id int64, input UpdateInput) (*models.Title, error) {
	const op = "titles.TitleService.Update"
	log := s.log.With("op", op, "id", id)
	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := title.Name
	if input.Name != nil {
		name = *input.Name
	}
	year := title.Year
	if input.Year != nil {
		year = input.Year
	}
	description := title.Description
	if input.Description != nil {
		description = *input.Description
	}
	var categoryID *int64
	if title.Category != nil {
		categoryID = &title.Category.ID
	}
	if input.CategorySlug != nil {
		categoryID, err = s.resolveCategory(ctx, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
	}
	genreIDs := make([]int64, 0, len(title.Genres))
	for _, genre := range title.Genres {
		genreIDs = append(genreIDs, genre.ID)
	}
	if input.GenreSlugs != nil {
		genreIDs, err = s.resolveGenres(ctx, input.GenreSlugs)
		if err != nil {
			return nil, err
		}
	}
	updated, err := s.storage.Update(ctx, id, name, year, description, categoryID, genreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *TitleService) Delete(ctx context.Context, id int64) error {
	const op = "titles.TitleService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
