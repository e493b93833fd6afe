// Package source fetches the character collection from the public superhero
// API, a local JSON file, or the most recent SQLite snapshot.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/internal/version"
	"github.com/HerbHall/roster/pkg/models"
)

// DefaultURL is the fixed location of the character collection.
const DefaultURL = "https://rawcdn.githack.com/akabab/superhero-api/0.2.0/api/all.json"

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 30 * time.Second

// Kinds accepted by New.
const (
	KindHTTP     = "http"
	KindFile     = "file"
	KindSnapshot = "snapshot"
)

// Source produces the full character collection in source order.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Character, error)
}

// Decode reads a JSON array of characters.
func Decode(r io.Reader) ([]models.Character, error) {
	var records []models.Character
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Character{}
	}
	return records, nil
}

// HTTPSource GETs the collection from a fixed URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource returns an HTTPSource for url. An empty url uses DefaultURL;
// a non-positive timeout uses DefaultTimeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) Name() string { return KindHTTP }

func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Character, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, &FetchError{Code: ErrCodeIO, Source: s.Name(), Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, mapHTTPError(s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapHTTPError(s.Name(), &statusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	records, err := Decode(resp.Body)
	if err != nil {
		return nil, &FetchError{Code: ErrCodeDecode, Source: s.Name(), Message: "invalid JSON body", Err: err}
	}
	return records, nil
}

// FileSource reads the collection from a JSON file on disk. Paths ending in
// ".gz" are decompressed, which covers files written by "roster backup".
type FileSource struct {
	Path string
}

var _ Source = (*FileSource)(nil)

func (s *FileSource) Name() string { return KindFile }

func (s *FileSource) Fetch(_ context.Context) ([]models.Character, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &FetchError{Code: ErrCodeIO, Source: s.Name(), Message: "open " + s.Path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.Path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &FetchError{Code: ErrCodeDecode, Source: s.Name(), Message: "invalid gzip in " + s.Path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	records, err := Decode(r)
	if err != nil {
		return nil, &FetchError{Code: ErrCodeDecode, Source: s.Name(), Message: "invalid JSON in " + s.Path, Err: err}
	}
	return records, nil
}

// SnapshotSource reads the newest snapshot written by "roster import".
type SnapshotSource struct {
	Repo services.SnapshotRepository
}

var _ Source = (*SnapshotSource)(nil)

func (s *SnapshotSource) Name() string { return KindSnapshot }

func (s *SnapshotSource) Fetch(ctx context.Context) ([]models.Character, error) {
	_, records, err := s.Repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, &FetchError{Code: ErrCodeIO, Source: s.Name(), Message: "no snapshot has been imported", Err: err}
		}
		return nil, &FetchError{Code: ErrCodeIO, Source: s.Name(), Message: "read latest snapshot", Err: err}
	}
	return records, nil
}

// Settings selects and parameterizes a Source. It is the "source" config
// subtree.
type Settings struct {
	Kind    string        `mapstructure:"kind"`
	URL     string        `mapstructure:"url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// New builds the Source named by s.Kind. The snapshot kind needs repo; other
// kinds ignore it.
func New(s Settings, repo services.SnapshotRepository) (Source, error) {
	switch s.Kind {
	case "", KindHTTP:
		return NewHTTPSource(s.URL, s.Timeout), nil
	case KindFile:
		if s.Path == "" {
			return nil, fmt.Errorf("source.path is required for the %s source", KindFile)
		}
		return &FileSource{Path: s.Path}, nil
	case KindSnapshot:
		if repo == nil {
			return nil, fmt.Errorf("the %s source needs a snapshot store", KindSnapshot)
		}
		return &SnapshotSource{Repo: repo}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

// Load fetches once and logs the outcome. Failures are not retried.
func Load(ctx context.Context, src Source, logger *zap.Logger) ([]models.Character, error) {
	start := time.Now()
	records, err := src.Fetch(ctx)
	if err != nil {
		logger.Error("character load failed",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	logger.Info("characters loaded",
		zap.String("source", src.Name()),
		zap.Int("count", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}
