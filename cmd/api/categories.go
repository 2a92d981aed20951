package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/catalog"

	"github.com/go-chi/chi/v5"
)

type catalogQuery struct {
	paginationQuery
	Search string `schema:"search"`
}

type catalogInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
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
	categories, metadata, err := app.services.Catalog.ListCategories(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"categories": categories, "metadata": metadata}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var input catalogInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	category, err := app.services.Catalog.CreateCategory(r.Context(), input.Name, input.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryExists) {
			app.Http.FieldError(w, r, "slug", err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := app.services.Catalog.DeleteCategory(r.Context(), slug); err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
