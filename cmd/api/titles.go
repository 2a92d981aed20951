package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"
	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/titles"
)

type titlesQuery struct {
	paginationQuery
	filters.TitleFilter
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var query titlesQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("id", "id", "name", "year", "rating")
	if !validSort(f.Sort, f.SortSafelist) {
		app.Http.FieldError(w, r, "sort", "Unknown sort field")
		return
	}
	list, metadata, err := app.services.Titles.List(r.Context(), query.TitleFilter, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"titles": list, "metadata": metadata}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	title, err := app.services.Titles.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, titles.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        *int32   `json:"year" validate:"omitnil,notfutureyear"`
		Description string   `json:"description"`
		Category    string   `json:"category" validate:"required,max=50,slug"`
		Genre       []string `json:"genre" validate:"required,min=1,dive,max=50,slug" errorMsg:"At least one valid genre slug is required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	title, err := app.services.Titles.Create(r.Context(), titles.TitleInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var input struct {
		Name        *string  `json:"name" validate:"omitnil,max=256"`
		Year        *int32   `json:"year" validate:"omitnil,notfutureyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category" validate:"omitnil,max=50,slug"`
		Genre       []string `json:"genre" validate:"omitnil,min=1,dive,max=50,slug" errorMsg:"At least one valid genre slug is required"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	title, err := app.services.Titles.Update(r.Context(), id, titles.UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) titleWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, titles.ErrTitleNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, titles.ErrUnknownCategory):
		app.Http.FieldError(w, r, "category", err.Error())
	case errors.Is(err, titles.ErrUnknownGenre):
		app.Http.FieldError(w, r, "genre", err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	if err := app.services.Titles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, titles.ErrTitleNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r)
}
