package reviews

import (
	"context"
	"log/slog"
	"testing"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewsStorage struct {
	reviews []models.Review
	nextID  int64
}

func (f *fakeReviewsStorage) ListForTitle(ctx context.Context, titleID int64, _ filters.Filters) ([]models.Review, int, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviewsStorage) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.ID == id {
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviewsStorage) ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error) {
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewsStorage) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	review := models.Review{ID: f.nextID, TitleID: titleID, AuthorID: authorID, Text: text, Score: score}
	f.reviews = append(f.reviews, review)
	return &review, nil
}

func (f *fakeReviewsStorage) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	for i, r := range f.reviews {
		if r.TitleID == review.TitleID && r.ID == review.ID {
			f.reviews[i] = *review
			return review, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviewsStorage) Delete(ctx context.Context, titleID, id int64) error {
	for i, r := range f.reviews {
		if r.TitleID == titleID && r.ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeCommentsStorage struct {
	comments []models.Comment
	nextID   int64
}

func (f *fakeCommentsStorage) ListForReview(ctx context.Context, reviewID int64, _ filters.Filters) ([]models.Comment, int, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeCommentsStorage) Get(ctx context.Context, reviewID, id int64) (*models.Comment, error) {
	for _, c := range f.comments {
		if c.ReviewID == reviewID && c.ID == id {
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCommentsStorage) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	f.nextID++
	comment := models.Comment{ID: f.nextID, ReviewID: reviewID, AuthorID: authorID, Text: text}
	f.comments = append(f.comments, comment)
	return &comment, nil
}

func (f *fakeCommentsStorage) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	for i, c := range f.comments {
		if c.ReviewID == comment.ReviewID && c.ID == comment.ID {
			f.comments[i] = *comment
			return comment, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCommentsStorage) Delete(ctx context.Context, reviewID, id int64) error {
	for i, c := range f.comments {
		if c.ReviewID == reviewID && c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeTitlesProvider struct {
	ids map[int64]bool
}

func (f *fakeTitlesProvider) Get(ctx context.Context, id int64) (*models.Title, error) {
	if !f.ids[id] {
		return nil, storage.ErrNotFound
	}
	return &models.Title{ID: id, Name: "some title"}, nil
}

func newTestService(titleIDs ...int64) (*ReviewService, *fakeReviewsStorage, *fakeCommentsStorage) {
	ids := make(map[int64]bool, len(titleIDs))
	for _, id := range titleIDs {
		ids[id] = true
	}
	reviewsStorage := &fakeReviewsStorage{}
	commentsStorage := &fakeCommentsStorage{}
	svc := New(slog.Default(), reviewsStorage, commentsStorage, &fakeTitlesProvider{ids: ids})
	return svc, reviewsStorage, commentsStorage
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	t.Run("first review succeeds", func(t *testing.T) {
		svc, _, _ := newTestService(10)
		review, err := svc.Create(ctx, 10, author, "great", 9)
		require.NoError(t, err)
		assert.Equal(t, int32(9), review.Score)
		assert.Equal(t, int64(10), review.TitleID)
	})
	t.Run("second review from same author rejected", func(t *testing.T) {
		svc, _, _ := newTestService(10)
		_, err := svc.Create(ctx, 10, author, "great", 9)
		require.NoError(t, err)
		_, err = svc.Create(ctx, 10, author, "changed my mind", 2)
		assert.ErrorIs(t, err, ErrReviewExists)
	})
	t.Run("constraint conflict is reported as duplicate", func(t *testing.T) {
		svc, reviewsStorage, _ := newTestService(10)
		// simulate a racing insert that the pre-check misses
		reviewsStorage.reviews = append(reviewsStorage.reviews, models.Review{ID: 99, TitleID: 10, AuthorID: author.ID})
		_, err := svc.Create(ctx, 10, author, "dup", 5)
		assert.ErrorIs(t, err, ErrReviewExists)
	})
	t.Run("same author may review another title", func(t *testing.T) {
		svc, _, _ := newTestService(10, 11)
		_, err := svc.Create(ctx, 10, author, "great", 9)
		require.NoError(t, err)
		_, err = svc.Create(ctx, 11, author, "also great", 8)
		assert.NoError(t, err)
	})
	t.Run("missing title yields not found", func(t *testing.T) {
		svc, _, _ := newTestService(10)
		_, err := svc.Create(ctx, 404, author, "text", 5)
		assert.ErrorIs(t, err, ErrTitleNotFound)
	})
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	svc, _, _ := newTestService(10)
	review, err := svc.Create(ctx, 10, author, "great", 9)
	require.NoError(t, err)
	t.Run("update is exempt from the duplicate check", func(t *testing.T) {
		newScore := int32(3)
		updated, err := svc.Update(ctx, 10, review.ID, nil, &newScore)
		require.NoError(t, err)
		assert.Equal(t, int32(3), updated.Score)
		assert.Equal(t, "great", updated.Text)
	})
	t.Run("unknown review", func(t *testing.T) {
		_, err := svc.Update(ctx, 10, 404, nil, nil)
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "alice", Role: models.RoleUser}
	svc, _, _ := newTestService(10)
	review, err := svc.Create(ctx, 10, author, "great", 9)
	require.NoError(t, err)
	t.Run("create and list", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, 10, review.ID, author, "agree")
		require.NoError(t, err)
		comments, meta, err := svc.ListComments(ctx, 10, review.ID, filters.Filters{Page: 1, PageSize: 10, Sort: "id", SortSafelist: []string{"id"}})
		require.NoError(t, err)
		assert.Len(t, comments, 1)
		assert.Equal(t, 1, meta.TotalRecords)
	})
	t.Run("missing parent review", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, 10, 404, author, "agree")
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
	t.Run("comments are removed with their review", func(t *testing.T) {
		comment, err := svc.CreateComment(ctx, 10, review.ID, author, "one more")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, 10, review.ID))
		_, err = svc.GetComment(ctx, 10, review.ID, comment.ID)
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}
