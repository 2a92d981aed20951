package reviews

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"
)

type ReviewsStorage interface {
	ListForTitle(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, id int64) error
}

type CommentsStorage interface {
	ListForReview(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Get(ctx context.Context, reviewID, id int64) (*models.Comment, error)
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, id int64) error
}

// TitlesProvider lets nested routes 404 on a missing parent title.
type TitlesProvider interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
}

type ReviewService struct {
	log      *slog.Logger
	reviews  ReviewsStorage
	comments CommentsStorage
	titles   TitlesProvider
}

func New(log *slog.Logger, reviews ReviewsStorage, comments CommentsStorage, titles TitlesProvider) *ReviewService {
	return &ReviewService{
		log:      log,
		reviews:  reviews,
		comments: comments,
		titles:   titles,
	}
}

func (s *ReviewService) checkTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titles.Get(ctx, titleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, filters.Metadata, error) {
	const op = "reviews.ReviewService.List"
	log := s.log.With("op", op, "title_id", titleID)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, filters.Metadata{}, err
	}
	reviews, total, err := s.reviews.ListForTitle(ctx, titleID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return reviews, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *ReviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	const op = "reviews.ReviewService.Get"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviews.Get(ctx, titleID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// Create enforces one review per author per title. The storage pre-check
// surfaces a friendly error; the unique constraint converts a concurrent
// duplicate insert into the same error.
func (s *ReviewService) Create(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "title_id", titleID, "author", author.Username)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if exists {
		log.Info("duplicate review rejected")
		return nil, ErrReviewExists
	}
	review, err := s.reviews.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate review rejected by constraint")
			return nil, ErrReviewExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// Update is exempt from the duplicate check: the review already exists.
func (s *ReviewService) Update(ctx context.Context, titleID, id int64, text *string, score *int32) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	review, err := s.Get(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if text != nil {
		review.Text = *text
	}
	if score != nil {
		review.Score = *score
	}
	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, titleID, id int64) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "title_id", titleID, "id", id)
	if err := s.checkTitle(ctx, titleID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) checkReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.Get(ctx, titleID, reviewID); err != nil {
		return err
	}
	return nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, filters.Metadata, error) {
	const op = "reviews.ReviewService.ListComments"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, filters.Metadata{}, err
	}
	comments, total, err := s.comments.ListForReview(ctx, reviewID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return comments, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	const op = "reviews.ReviewService.GetComment"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "review_id", reviewID, "author", author.Username)
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, reviewID, author.ID, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, titleID, reviewID, id int64, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	comment, err := s.GetComment(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	comment.Text = text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, id int64) error {
	const op = "reviews.ReviewService.DeleteComment"
	log := s.log.With("op", op, "review_id", reviewID, "id", id)
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
