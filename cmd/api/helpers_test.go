package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSort(t *testing.T) {
	safelist := []string{"id", "name", "year", "rating"}
	testCases := []struct {
		sort string
		ok   bool
	}{
		{"id", true},
		{"rating", true},
		{"-rating", true},
		{"-year", true},
		{"slug", false},
		{"-slug", false},
		{"", false},
		{"-", false},
		{"year; DROP TABLE titles", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.ok, validSort(tc.sort, safelist), "sort %q", tc.sort)
	}
}

func TestPaginationQueryFilters(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := paginationQuery{}
		f := q.filters("name", "id", "name")
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 10, f.PageSize)
		assert.Equal(t, "name", f.Sort)
		assert.Equal(t, []string{"id", "name"}, f.SortSafelist)
	})
	t.Run("page size is capped", func(t *testing.T) {
		q := paginationQuery{Page: 2, PageSize: 500, Sort: "-id"}
		f := q.filters("name", "id", "name")
		assert.Equal(t, 2, f.Page)
		assert.Equal(t, 10, f.PageSize)
		assert.Equal(t, "-id", f.Sort)
	})
}
