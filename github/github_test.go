package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"devlink/logger"
)

// mapCache is an in-memory stand-in for the redis cache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mapCache) Set(_ context.Context, key string, val any, _ time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *mapCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func TestReposProxiesUpstreamJSON(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Query().Get("per_page") != "5" {
			t.Errorf("per_page query missing: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"devlink"}]`))
	}))
	defer upstream.Close()

	client := New("", "", newMapCache(), logger.New())
	client.baseURL = upstream.URL

	repos, err := client.Repos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Repos: %v", err)
	}

	var parsed []map[string]any
	if err := json.Unmarshal(repos, &parsed); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(parsed) != 1 || parsed[0]["name"] != "devlink" {
		t.Fatalf("unexpected payload: %s", repos)
	}

	// Second call is served from cache.
	if _, err := client.Repos(context.Background(), "octocat"); err != nil {
		t.Fatalf("cached Repos: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected a single upstream hit, got %d", hits)
	}
}

func TestReposUnknownUser(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer upstream.Close()

	client := New("", "", nil, logger.New())
	client.baseURL = upstream.URL

	if _, err := client.Repos(context.Background(), "nobody"); err != ErrNoProfile {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestReposWithoutCache(t *testing.T) {
	var hits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	client := New("", "", nil, logger.New())
	client.baseURL = upstream.URL

	for i := 0; i < 2; i++ {
		if _, err := client.Repos(context.Background(), "octocat"); err != nil {
			t.Fatalf("Repos: %v", err)
		}
	}
	if hits != 2 {
		t.Fatalf("uncached client must hit upstream each time, got %d", hits)
	}
}
