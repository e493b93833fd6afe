package roster

import (
	"context"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/roster/internal/filterexpr"
	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/table"
	"github.com/HerbHall/roster/internal/testutil"
	"github.com/HerbHall/roster/pkg/models"
)

func ids(records []models.Character) []int {
	out := make([]int, len(records))
	for i, c := range records {
		out[i] = c.ID
	}
	return out
}

func newService(t *testing.T, cacheSize int, m *metrics.Metrics) *Service {
	t.Helper()
	svc, err := NewService(loadedStore(t, testutil.Roster()), cacheSize, m, testutil.Logger())
	require.NoError(t, err)
	return svc
}

func TestService_QueryDefault(t *testing.T) {
	svc := newService(t, 16, nil)
	v, err := svc.Query(context.Background(), query.Default(), "")
	require.NoError(t, err)
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(v.Items))
	assert.Equal(t, query.Default(), v.State)
}

func TestService_CachedMatchesUncached(t *testing.T) {
	m := metrics.New()
	cached := newService(t, 16, m)
	uncached := newService(t, 0, nil)
	ctx := context.Background()

	states := []query.State{
		query.Default(),
		query.Default().ToggleSort(query.ColumnHeight).WithPageSize(2).WithPage(2),
		query.Default().WithSearch(query.FieldAlignment, query.OpEqual, "good").ToggleSort(query.ColumnName).ToggleSort(query.ColumnName),
		query.Default().WithSearch(query.FieldPowerstats, query.OpGreaterThan, "90").WithPageSize(query.All),
	}
	for _, st := range states {
		for round := 0; round < 2; round++ {
			a, err := cached.Query(ctx, st, `strength > 20`)
			require.NoError(t, err)
			b, err := uncached.Query(ctx, st, `strength > 20`)
			require.NoError(t, err)
			assert.Equal(t, b, a, "state=%s round=%d", st.Encode(), round)
		}
	}

	assert.Equal(t, float64(len(states)), prom.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.ResultMiss)))
	assert.Equal(t, float64(len(states)), prom.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.ResultHit)))
}

func TestService_FilterNarrowsBeforePipeline(t *testing.T) {
	svc := newService(t, 16, nil)
	st := query.Default().WithSearch(query.FieldName, query.OpInclude, "b")

	v, err := svc.Query(context.Background(), st, `alignment = "good"`)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(v.Items))

	want := table.Run(testutil.Roster(), st)
	assert.Equal(t, []int{1, 2, 3}, ids(want.Items), "without the filter Abomination also matches")
}

func TestService_InvalidFilter(t *testing.T) {
	m := metrics.New()
	svc := newService(t, 16, m)
	_, err := svc.Query(context.Background(), query.Default(), `strength >= "lots"`)
	assert.ErrorIs(t, err, filterexpr.ErrInvalid)
	assert.Equal(t, float64(1), prom.ToFloat64(m.QueriesTotal.WithLabelValues(metrics.ResultError)))
}

func TestService_NormalizesState(t *testing.T) {
	svc := newService(t, 16, nil)
	bogus := query.State{Field: "bogus", Operator: "like", PageSize: -3, Page: 0, SortOrder: "sideways"}

	v, err := svc.Query(context.Background(), bogus, "")
	require.NoError(t, err)
	assert.Equal(t, query.Default(), v.State)
}

func TestService_NotLoaded(t *testing.T) {
	svc, err := NewService(NewStore(), 16, nil, testutil.Logger())
	require.NoError(t, err)

	_, err = svc.Query(context.Background(), query.Default(), "")
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = svc.Suggest(context.Background(), "a", 5)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestService_CancelledContext(t *testing.T) {
	svc := newService(t, 16, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Query(ctx, query.Default(), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_Get(t *testing.T) {
	svc := newService(t, 16, nil)
	c, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Angel Dust", c.Name)

	_, err = svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Suggest(t *testing.T) {
	svc := newService(t, 16, nil)
	ctx := context.Background()

	got, err := svc.Suggest(ctx, "dust", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{ID: 4, Name: "Angel Dust", Score: got[0].Score}, got[0])

	got, err = svc.Suggest(ctx, "a", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Suggest(ctx, "  ", 2)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = svc.Suggest(ctx, "a", 0)
	require.NoError(t, err)
	assert.Len(t, got, 5, "default limit covers the whole roster")
}
