package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/reserved/models"
	"github.com/yourusername/reserved/services"
)

func mirrorServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["admin","api","Remote"]`))
	})
	mux.HandleFunc("/list.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("admin\napi\n"))
	})
	mux.HandleFunc("/list.csv", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("name\nadmin\nwww\n"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/garbage.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("late\n"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_Formats(t *testing.T) {
	srv := mirrorServer(t)
	cases := []struct {
		path, format string
		want         []string
	}{
		{"/list.json", "json", []string{"admin", "api", "Remote"}},
		{"/list.txt", "txt", []string{"admin", "api"}},
		{"/list.csv", "csv", []string{"admin", "www"}},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			src := services.NewHTTPSource([]models.Mirror{{URL: srv.URL + tc.path, Format: tc.format}}, time.Second)
			got, err := src.Fetch(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHTTPSource_FallsBackToNextMirror(t *testing.T) {
	srv := mirrorServer(t)
	src := services.NewHTTPSource([]models.Mirror{
		{URL: srv.URL + "/broken", Format: "json"},
		{URL: srv.URL + "/garbage.json", Format: "json"},
		{URL: srv.URL + "/list.txt", Format: "txt"},
	}, time.Second)
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "api"}, got)
}

func TestHTTPSource_AllMirrorsFail(t *testing.T) {
	srv := mirrorServer(t)
	src := services.NewHTTPSource([]models.Mirror{
		{URL: srv.URL + "/broken", Format: "json"},
		{URL: srv.URL + "/list.txt", Format: "xml"},
	}, time.Second)
	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, services.ErrFetch)

	_, err = services.NewHTTPSource(nil, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, services.ErrFetch)
}

func TestHTTPSource_Timeout(t *testing.T) {
	srv := mirrorServer(t)
	src := services.NewHTTPSource([]models.Mirror{{URL: srv.URL + "/slow", Format: "txt"}}, 100*time.Millisecond)
	start := time.Now()
	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, services.ErrFetch)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}

func TestHTTPSource_ContextCancel(t *testing.T) {
	srv := mirrorServer(t)
	src := services.NewHTTPSource([]models.Mirror{{URL: srv.URL + "/slow", Format: "txt"}}, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := src.Fetch(ctx)
	assert.ErrorIs(t, err, services.ErrFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistry_AutoUpdateOverHTTP(t *testing.T) {
	srv := mirrorServer(t)
	store := services.NewFileCacheStore(t.TempDir() + "/cache.json")
	var updated int
	reg, err := services.New(context.Background(), services.Options{
		AutoUpdate: true,
		Store:      store,
		Source:     services.NewHTTPSource([]models.Mirror{{URL: srv.URL + "/list.json", Format: "json"}}, time.Second),
		Hooks:      services.Hooks{OnUpdated: func(n int) { updated = n }},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.True(t, reg.IsReserved("REMOTE"))
	assert.False(t, reg.IsReserved("root"))

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"admin", "api", "remote"}, rec.Usernames)
}
