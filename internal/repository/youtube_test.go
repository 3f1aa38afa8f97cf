package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeYouTube is an httptest server speaking just enough of the Data API v3.
type fakeYouTube struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls map[string]int
}

func newFakeYouTube(t *testing.T) *fakeYouTube {
	t.Helper()
	f := &fakeYouTube{mux: http.NewServeMux(), calls: make(map[string]int)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeYouTube) handle(resource string, h http.HandlerFunc) {
	f.mux.HandleFunc("/youtube/v3/"+resource, h)
}

func (f *fakeYouTube) callCount(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls["/youtube/v3/"+resource]
}

func (f *fakeYouTube) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), ClientConfig{
		Endpoint: f.URL + "/",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

type item = map[string]any

func list(items ...item) map[string]any {
	if items == nil {
		items = []item{}
	}
	return map[string]any{"items": items}
}

// multi returns every value of a repeated or comma-joined query parameter.
func multi(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
