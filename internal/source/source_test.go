package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/HerbHall/roster/internal/services"
	"github.com/HerbHall/roster/internal/testutil"
)

func serveFile(t *testing.T, path string) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "roster/") {
			t.Errorf("User-Agent = %q, want roster/ prefix", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := serveFile(t, "testdata/all.json")
	records, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Name != "A-Bomb" || records[1].ID != 2 {
		t.Errorf("records out of source order: %q, %d", records[0].Name, records[1].ID)
	}
	if records[1].Appearance.Race != "" {
		t.Errorf("null race = %q, want empty", records[1].Appearance.Race)
	}
	if records[1].Biography.Publisher != "" {
		t.Errorf("null publisher = %q, want empty", records[1].Biography.Publisher)
	}
	if got := records[0].Appearance.Height; len(got) != 2 || got[1] != "203 cm" {
		t.Errorf("height = %v", got)
	}
}

func TestHTTPSource_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	if !IsCode(err, ErrCodeStatus) {
		t.Fatalf("err = %v, want %s", err, ErrCodeStatus)
	}
	var se *statusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Errorf("status error not unwrapped: %v", err)
	}
}

func TestHTTPSource_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	if !IsCode(err, ErrCodeDecode) {
		t.Errorf("err = %v, want %s", err, ErrCodeDecode)
	}
}

func TestHTTPSource_Cancelled(t *testing.T) {
	srv := serveFile(t, "testdata/all.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(ctx)
	if !IsCode(err, ErrCodeTimeout) {
		t.Errorf("err = %v, want %s", err, ErrCodeTimeout)
	}
}

func TestNewHTTPSource_Defaults(t *testing.T) {
	s := NewHTTPSource("", 0)
	if s.URL != DefaultURL {
		t.Errorf("URL = %q, want default", s.URL)
	}
	if s.Client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", s.Client.Timeout, DefaultTimeout)
	}
}

func TestFileSource(t *testing.T) {
	records, err := (&FileSource{Path: "testdata/all.json"}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2", len(records))
	}

	_, err = (&FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}).Fetch(context.Background())
	if !IsCode(err, ErrCodeIO) {
		t.Errorf("missing file err = %v, want %s", err, ErrCodeIO)
	}
}

func TestFileSource_Gzip(t *testing.T) {
	body, err := os.ReadFile("testdata/all.json")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "all.json.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(f)
	gw.Write(body)
	gw.Close()
	f.Close()

	records, err := (&FileSource{Path: path}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2", len(records))
	}

	plain := filepath.Join(t.TempDir(), "plain.json.gz")
	if err := os.WriteFile(plain, body, 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = (&FileSource{Path: plain}).Fetch(context.Background())
	if !IsCode(err, ErrCodeDecode) {
		t.Errorf("uncompressed .gz err = %v, want %s", err, ErrCodeDecode)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	records, err := Decode(strings.NewReader("[]"))
	if err != nil {
		t.Fatal(err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Decode([]) = %v, want empty non-nil slice", records)
	}
}

func TestSnapshotSource(t *testing.T) {
	ctx := context.Background()
	repo, err := services.NewSQLiteSnapshotRepository(ctx, testutil.NewStore(t))
	if err != nil {
		t.Fatal(err)
	}
	src := &SnapshotSource{Repo: repo}

	if _, err := src.Fetch(ctx); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Fetch before import = %v, want ErrNotFound", err)
	}

	if _, err := repo.Save(ctx, KindFile, testutil.Roster()); err != nil {
		t.Fatal(err)
	}
	records, err := src.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 5 || records[4].Name != "Ando Masahashi" {
		t.Errorf("snapshot records = %d, last %q", len(records), records[len(records)-1].Name)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     string
		wantErr  bool
	}{
		{name: "default http", want: KindHTTP},
		{name: "file", settings: Settings{Kind: KindFile, Path: "x.json"}, want: KindFile},
		{name: "file without path", settings: Settings{Kind: KindFile}, wantErr: true},
		{name: "snapshot without repo", settings: Settings{Kind: KindSnapshot}, wantErr: true},
		{name: "unknown", settings: Settings{Kind: "ftp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.settings, nil)
			if tt.wantErr {
				if err == nil {
					t.Error("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if src.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.want)
			}
		})
	}
}

func TestNew_HTTPSettings(t *testing.T) {
	src, err := New(Settings{Kind: KindHTTP, URL: "http://example.test/all.json", Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h, ok := src.(*HTTPSource)
	if !ok {
		t.Fatalf("source = %T, want *HTTPSource", src)
	}
	if h.URL != "http://example.test/all.json" {
		t.Errorf("URL = %q", h.URL)
	}
	if h.Client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", h.Client.Timeout)
	}
}

func TestLoad_LogsAndReturns(t *testing.T) {
	records, err := Load(context.Background(), &FileSource{Path: "testdata/all.json"}, testutil.Logger())
	if err != nil || len(records) != 2 {
		t.Errorf("Load = %d records, %v", len(records), err)
	}
	if _, err := Load(context.Background(), &FileSource{Path: "nope.json"}, testutil.Logger()); err == nil {
		t.Error("Load missing file: want error")
	}
}
