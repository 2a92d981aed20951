package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/domain/permissions"
	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/reviews"
)

func (app *Application) reviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, reviews.ErrReviewExists):
		app.Http.FieldError(w, r, "title", err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var query paginationQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("pub_date", "id", "score", "pub_date")
	if !validSort(f.Sort, f.SortSafelist) {
		app.Http.FieldError(w, r, "sort", "Unknown sort field")
		return
	}
	list, metadata, err := app.services.Reviews.List(r.Context(), titleID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"reviews": list, "metadata": metadata}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var input struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"required,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	review, err := app.services.Reviews.Create(r.Context(), titleID, app.contextGetUser(r), input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.OwnerOrElevated(r.Method, app.contextGetUser(r), review.AuthorID) {
		app.Http.Forbidden(w, r, "You may only edit your own reviews")
		return
	}
	var input struct {
		Text  *string `json:"text" validate:"omitnil,min=1"`
		Score *int32  `json:"score" validate:"omitnil,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	updated, err := app.services.Reviews.Update(r.Context(), titleID, id, input.Text, input.Score)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": updated}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.Get(r.Context(), titleID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.OwnerOrElevated(r.Method, app.contextGetUser(r), review.AuthorID) {
		app.Http.Forbidden(w, r, "You may only delete your own reviews")
		return
	}
	if err := app.services.Reviews.Delete(r.Context(), titleID, id); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
