package main

import (
	"errors"
	"net/http"

	"github.com/NikKurkov/api-yamdb/internal/lib/validator"
	"github.com/NikKurkov/api-yamdb/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Username string `json:"username" validate:"required,max=150,username"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	if _, err := app.services.Auth.Signup(r.Context(), input.Email, input.Username); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			app.Http.FieldError(w, r, "email", err.Error())
		case errors.Is(err, auth.ErrUsernameExists):
			app.Http.FieldError(w, r, "username", err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	// the payload is echoed back; the code only travels by email
	app.Http.Ok(w, r, envelop{"email": input.Email, "username": input.Username}, "Confirmation code sent")
}

func (app *Application) token(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username         string `json:"username" validate:"required,max=150,username"`
		ConfirmationCode string `json:"confirmation_code" validate:"required,max=64"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, input); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	token, err := app.services.Auth.IssueToken(r.Context(), input.Username, input.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, auth.ErrInvalidConfirmationCode):
			app.Http.FieldError(w, r, "confirmation_code", err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
