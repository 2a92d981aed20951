package main

import (
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/domain/permissions"
	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
)

func (app *Application) extractCommentRoute(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	titleID, ok = app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok = app.extractIDParam(w, r, "reviewID")
	return
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentRoute(w, r)
	if !ok {
		return
	}
	var query paginationQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("pub_date", "id", "pub_date")
	if !validSort(f.Sort, f.SortSafelist) {
		app.Http.FieldError(w, r, "sort", "Unknown sort field")
		return
	}
	list, metadata, err := app.services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comments": list, "metadata": metadata}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentRoute(w, r)
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentRoute(w, r)
	if !ok {
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	comment, err := app.services.Reviews.CreateComment(r.Context(), titleID, reviewID, app.contextGetUser(r), input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentRoute(w, r)
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.OwnerOrElevated(r.Method, app.contextGetUser(r), comment.AuthorID) {
		app.Http.Forbidden(w, r, "You may only edit your own comments")
		return
	}
	var input struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	updated, err := app.services.Reviews.UpdateComment(r.Context(), titleID, reviewID, id, input.Text)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": updated}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.extractCommentRoute(w, r)
	if !ok {
		return
	}
	id, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, id)
	if err != nil {
		app.reviewError(w, r, err)
		return
	}
	if !permissions.OwnerOrElevated(r.Method, app.contextGetUser(r), comment.AuthorID) {
		app.Http.Forbidden(w, r, "You may only delete your own comments")
		return
	}
	if err := app.services.Reviews.DeleteComment(r.Context(), titleID, reviewID, id); err != nil {
		app.reviewError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
