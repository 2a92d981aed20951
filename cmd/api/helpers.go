package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/NikKurkov/api-yamdb/internal/domain/filters"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		app.Http.NotFound(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readQuery decodes URL query params into dst via gorilla/schema tags.
func (app *Application) readQuery(r *http.Request, dst interface{}) error {
	return app.queryDecoder.Decode(dst, r.URL.Query())
}

// paginationQuery is embedded in listing query structs.
type paginationQuery struct {
	Page     int    `schema:"page"`
	PageSize int    `schema:"page_size"`
	Sort     string `schema:"sort"`
}

func (q *paginationQuery) filters(defaultSort string, safelist ...string) filters.Filters {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
	if q.Sort == "" {
		q.Sort = defaultSort
	}
	return filters.Filters{
		Page:         q.Page,
		PageSize:     q.PageSize,
		Sort:         q.Sort,
		SortSafelist: safelist,
	}
}

func validSort(sort string, safelist []string) bool {
	s := sort
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	for _, safe := range safelist {
		if s == safe {
			return true
		}
	}
	return false
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
