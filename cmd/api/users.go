package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/domain/models"
	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/users"

	"github.com/go-chi/chi/v5"
)

type userUpdateInput struct {
	Username *string `json:"username" validate:"omitnil,max=150,username"`
	Email    *string `json:"email" validate:"omitnil,email,max=254"`
	Bio      *string `json:"bio" validate:"omitnil,max=100"`
	Role     *string `json:"role" validate:"omitnil,oneof=user moderator admin"`
}

func (input *userUpdateInput) toService() users.UpdateInput {
	update := users.UpdateInput{
		Username: input.Username,
		Email:    input.Email,
		Bio:      input.Bio,
	}
	if input.Role != nil {
		role := models.Role(*input.Role)
		update.Role = &role
	}
	return update
}

func (app *Application) userError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrUserExists):
		app.Http.FieldError(w, r, "username", err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var query catalogQuery
	if err := app.readQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	f := query.filters("username", "id", "username", "role")
	if !validSort(f.Sort, f.SortSafelist) {
		app.Http.FieldError(w, r, "sort", "Unknown sort field")
		return
	}
	list, metadata, err := app.services.Users.List(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"users": list, "metadata": metadata}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,max=150,username"`
		Email    string `json:"email" validate:"required,email,max=254"`
		Bio      string `json:"bio" validate:"max=100"`
		Role     string `json:"role" validate:"omitempty,oneof=user moderator admin"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Users.Create(r.Context(), input.Username, input.Email, input.Bio, models.Role(input.Role))
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.services.Users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var input userUpdateInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Users.Update(r.Context(), chi.URLParam(r, "username"), input.toService(), true)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getMe(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextGetUser(r)}, "")
}

// updateMe lets a user edit their own profile. The role field, if present,
// is ignored: roles are managed by admins.
func (app *Application) updateMe(w http.ResponseWriter, r *http.Request) {
	var input userUpdateInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	me := app.contextGetUser(r)
	user, err := app.services.Users.Update(r.Context(), me.Username, input.toService(), false)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}
