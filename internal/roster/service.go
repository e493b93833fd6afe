package roster

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/filterexpr"
	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/table"
	"github.com/HerbHall/roster/pkg/models"
)

// Suggestion limits.
const (
	DefaultSuggestLimit = 10
	MaxSuggestLimit     = 50
)

// Suggestion is one fuzzy name match.
type Suggestion struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Service runs table queries against a Store. Views are cached by their
// canonical query string; the Store never changes after load, so entries
// never go stale.
type Service struct {
	store   *Store
	cache   *lru.Cache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a Service. A cacheSize below 1 disables caching; m may
// be nil.
func NewService(store *Store, cacheSize int, m *metrics.Metrics, logger *zap.Logger) (*Service, error) {
	s := &Service{store: store, metrics: m, logger: logger}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create query cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Store returns the backing store.
func (s *Service) Store() *Store { return s.store }

// CacheKey is the cache key for a normalized state and filter expression.
func CacheKey(st query.State, filter string) string {
	return st.Encode() + "\n" + filter
}

// Query narrows the store with filter (an AIP-160 expression, may be empty)
// and runs the filter, sort and paginate pipeline for st. The returned view
// is shared with the cache and must not be modified. Invalid filters return
// an error wrapping filterexpr.ErrInvalid.
func (s *Service) Query(ctx context.Context, st query.State, filter string) (table.View, error) {
	if err := ctx.Err(); err != nil {
		return table.View{}, err
	}

	records, err := s.store.Records()
	if err != nil {
		s.count(metrics.ResultError)
		return table.View{}, err
	}

	// Out-of-domain values fall back to defaults the same way URL input does.
	st = query.Decode(st.Values())
	filter = strings.TrimSpace(filter)
	key := CacheKey(st, filter)

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.count(metrics.ResultHit)
			return v.(table.View), nil
		}
	}

	start := time.Now()
	prog, err := filterexpr.Compile(filter)
	if err != nil {
		s.count(metrics.ResultError)
		return table.View{}, err
	}
	narrowed, err := prog.Apply(records)
	if err != nil {
		s.count(metrics.ResultError)
		return table.View{}, err
	}
	view := table.Run(narrowed, st)

	if s.metrics != nil {
		s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
		s.metrics.ResultSize.Observe(float64(view.Total))
	}
	s.count(metrics.ResultMiss)
	if s.cache != nil {
		s.cache.Add(key, view)
	}

	s.logger.Debug("query",
		zap.String("state", st.Encode()),
		zap.String("filter", filter),
		zap.Int("total", view.Total),
		zap.Int("page", view.Page.Page),
	)
	return view, nil
}

// Get returns a single character by id.
func (s *Service) Get(_ context.Context, id int) (models.Character, error) {
	return s.store.Get(id)
}

// nameSource adapts records to fuzzy.Source.
type nameSource []models.Character

func (n nameSource) String(i int) string { return n[i].Name }
func (n nameSource) Len() int            { return len(n) }

// Suggest returns up to limit characters whose names fuzzy-match q, best
// first. An empty q yields no suggestions.
func (s *Service) Suggest(ctx context.Context, q string, limit int) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.store.Records()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	limit = min(limit, MaxSuggestLimit)

	out := make([]Suggestion, 0, limit)
	q = strings.TrimSpace(q)
	if q == "" {
		return out, nil
	}

	for _, m := range fuzzy.FindFrom(q, nameSource(records)) {
		if len(out) == limit {
			break
		}
		out = append(out, Suggestion{ID: records[m.Index].ID, Name: m.Str, Score: m.Score})
	}
	return out, nil
}

func (s *Service) count(result string) {
	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(result).Inc()
	}
}
