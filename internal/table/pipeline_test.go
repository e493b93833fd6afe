package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/testutil"
)

func TestRun_FilterSortPaginate(t *testing.T) {
	s := query.Default().
		WithSearch(query.FieldAlignment, query.OpEqual, "good").
		ToggleSort(query.ColumnHeight).
		WithPageSize(2)
	s = s.WithPage(2)

	v := Run(testutil.Roster(), s)

	// good: 1 (6'8), 2 (6'3), 4 (5'5), 5 (missing). Ascending: 4, 1, 2, 5.
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, []int{2, 5}, ids(v.Items))
	assert.Equal(t, 2, v.State.Page)
}

func TestRun_ClampsStatePage(t *testing.T) {
	s := query.Default().WithPage(9)
	v := Run(testutil.Characters(45), s)
	assert.Equal(t, 3, v.Page.Page)
	assert.Equal(t, 3, v.State.Page)
}

func TestRun_EmptyResult(t *testing.T) {
	s := query.Default().WithSearch(query.FieldName, query.OpEqual, "nobody")
	v := Run(testutil.Roster(), s)
	assert.Equal(t, 0, v.Total)
	assert.Equal(t, 1, v.TotalPages)
	assert.Empty(t, v.Items)
}

func TestRun_Deterministic(t *testing.T) {
	records := testutil.Roster()
	s := query.Default().ToggleSort(query.ColumnName).ToggleSort(query.ColumnName)
	assert.Equal(t, Run(records, s), Run(records, s))
	assert.Equal(t, []int{4, 5, 3, 2, 1}, ids(Run(records, s).Items))
}
