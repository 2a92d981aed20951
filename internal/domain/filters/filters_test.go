package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumn(t *testing.T) {
	f := Filters{SortSafelist: []string{"id", "name", "year"}}
	t.Run("safelisted column", func(t *testing.T) {
		f.Sort = "year"
		assert.Equal(t, "year", f.SortColumn())
	})
	t.Run("descending prefix is stripped", func(t *testing.T) {
		f.Sort = "-name"
		assert.Equal(t, "name", f.SortColumn())
	})
	t.Run("unknown column panics instead of reaching the query", func(t *testing.T) {
		f.Sort = "confirmation_code"
		assert.Panics(t, func() { f.SortColumn() })
	})
	t.Run("prefix alone does not bypass the safelist", func(t *testing.T) {
		f.Sort = "-confirmation_code"
		assert.Panics(t, func() { f.SortColumn() })
	})
}

func TestSortDirection(t *testing.T) {
	f := Filters{Sort: "year"}
	assert.Equal(t, AscSort, f.SortDirection())
	f.Sort = "-year"
	assert.Equal(t, DescSort, f.SortDirection())
}

func TestLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PageSize: 10}
	assert.Equal(t, 10, f.Limit())
	assert.Equal(t, 20, f.Offset())
}

func TestCalculateMetadata(t *testing.T) {
	t.Run("empty result has empty metadata", func(t *testing.T) {
		assert.Equal(t, Metadata{}, CalculateMetadata(0, 1, 10))
	})
	t.Run("last page rounds up", func(t *testing.T) {
		meta := CalculateMetadata(21, 2, 10)
		assert.Equal(t, 2, meta.CurrentPage)
		assert.Equal(t, 3, meta.LastPage)
		assert.Equal(t, 21, meta.TotalRecords)
	})
}
