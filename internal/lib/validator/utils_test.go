package validator

import (
	"fmt"
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *govalidator.Validate {
	t.Helper()
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	Register(v)
	return v
}

func TestValidateNotFutureYear(t *testing.T) {
	v := newValidator(t)
	type input struct {
		Year *int32 `json:"year" validate:"omitnil,notfutureyear"`
	}
	currentYear := int32(time.Now().Year())
	t.Run("current and past years pass", func(t *testing.T) {
		for _, year := range []int32{currentYear, currentYear - 1, 1869} {
			assert.Empty(t, ValidateStruct(v, input{Year: &year}), "year %d", year)
		}
	})
	t.Run("nil year passes", func(t *testing.T) {
		assert.Empty(t, ValidateStruct(v, input{}))
	})
	t.Run("future year rejected", func(t *testing.T) {
		year := currentYear + 1
		errs := ValidateStruct(v, input{Year: &year})
		require.Contains(t, errs, "year")
		assert.Equal(t, "Year must not be in the future", errs["year"])
	})
}

func TestScoreBounds(t *testing.T) {
	v := newValidator(t)
	type input struct {
		Score int32 `json:"score" validate:"required,gte=1,lte=10"`
	}
	for score := int32(1); score <= 10; score++ {
		assert.Empty(t, ValidateStruct(v, input{Score: score}), "score %d", score)
	}
	for _, score := range []int32{-1, 0, 11, 100} {
		errs := ValidateStruct(v, input{Score: score})
		assert.Contains(t, errs, "score", fmt.Sprintf("score %d should fail", score))
	}
}

func TestValidateSlug(t *testing.T) {
	v := newValidator(t)
	type input struct {
		Slug string `json:"slug" validate:"required,max=50,slug"`
	}
	t.Run("valid slugs", func(t *testing.T) {
		for _, slug := range []string{"films", "sci-fi", "top_10"} {
			assert.Empty(t, ValidateStruct(v, input{Slug: slug}))
		}
	})
	t.Run("invalid slugs", func(t *testing.T) {
		for _, slug := range []string{"with space", "кино", "semi;colon", "slash/"} {
			errs := ValidateStruct(v, input{Slug: slug})
			assert.Contains(t, errs, "slug", slug)
		}
	})
}

func TestValidateUsername(t *testing.T) {
	v := newValidator(t)
	type input struct {
		Username string `json:"username" validate:"required,max=150,username"`
	}
	for _, username := range []string{"alice", "a.b+c@d-e_f"} {
		assert.Empty(t, ValidateStruct(v, input{Username: username}))
	}
	for _, username := range []string{"bad name", "no#hash"} {
		errs := ValidateStruct(v, input{Username: username})
		assert.Contains(t, errs, "username", username)
	}
}

func TestFieldNamesComeFromJSONTags(t *testing.T) {
	v := newValidator(t)
	type input struct {
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	errs := ValidateStruct(v, input{})
	assert.Contains(t, errs, "confirmation_code")
}
