package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	var query catalogQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("name", "id", "name", "slug")
	if !validSort(f.Sort, f.SortSafelist) {
		app.Http.FieldError(w, r, "sort", "Unknown sort field")
		return
	}
	genres, metadata, err := app.services.Catalog.ListGenres(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"genres": genres, "metadata": metadata}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var input catalogInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	genre, err := app.services.Catalog.CreateGenre(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrGenreExists) {
			app.Http.FieldError(w, r, "slug", err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteGenre(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
