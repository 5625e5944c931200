// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/cache"
	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/models"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/poster"
	"github.com/tomtom215/plexboard/internal/store"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// fakeTautulli is a scripted tautulli.ClientInterface.
type fakeTautulli struct {
	mu         sync.Mutex
	recent     *tmodels.TautulliRecentlyAdded
	activity   *tmodels.TautulliActivity
	users      *tmodels.TautulliUsers
	libraries  *tmodels.TautulliLibraries
	raw        json.RawMessage
	err        error
	calls      map[string]int
	lastArgs   []interface{}
	lastParams url.Values
}

func newFakeTautulli() *fakeTautulli {
	return &fakeTautulli{calls: map[string]int{}}
}

func (f *fakeTautulli) record(name string, args ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	f.lastArgs = args
	return f.err
}

func (f *fakeTautulli) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeTautulli) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeTautulli) Ping(context.Context) error { return f.record("ping") }

func (f *fakeTautulli) GetRecentlyAdded(_ context.Context, count, start int, mediaType string, sectionID int) (*tmodels.TautulliRecentlyAdded, error) {
	if err := f.record("get_recently_added", count, start, mediaType, sectionID); err != nil {
		return nil, err
	}
	return f.recent, nil
}

func (f *fakeTautulli) GetActivity(context.Context) (*tmodels.TautulliActivity, error) {
	if err := f.record("get_activity"); err != nil {
		return nil, err
	}
	return f.activity, nil
}

func (f *fakeTautulli) GetUsers(context.Context) (*tmodels.TautulliUsers, error) {
	if err := f.record("get_users"); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeTautulli) GetLibraries(context.Context) (*tmodels.TautulliLibraries, error) {
	if err := f.record("get_libraries"); err != nil {
		return nil, err
	}
	return f.libraries, nil
}

func (f *fakeTautulli) GetMetadata(context.Context, string) (*tmodels.TautulliMetadata, error) {
	return nil, upstream.ErrNotFound
}

func (f *fakeTautulli) Call(_ context.Context, cmd string, params url.Values) (json.RawMessage, error) {
	if err := f.record(cmd); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastParams = params
	f.mu.Unlock()
	return f.raw, nil
}

func (f *fakeTautulli) FetchImage(context.Context, string, int, int) (*upstream.Image, error) {
	return nil, upstream.ErrNotFound
}

// imageSource serves a fixed JPEG body for every poster.
type imageSource struct{}

func (imageSource) Name() string { return poster.SourceTautulli }

func (imageSource) Fetch(_ context.Context, t *poster.Target) (*upstream.Image, error) {
	return &upstream.Image{Data: []byte("jpeg:" + t.Key), ContentType: "image/jpeg"}, nil
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) has(typ, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Type == typ && ev.Key == key {
			return true
		}
	}
	return false
}

type testEnv struct {
	handler  *Handler
	router   http.Handler
	tautulli *fakeTautulli
	store    *store.Store
	cache    *cache.Cache
	logs     *logging.Buffer
	events   *recorder
}

type envOption func(*Deps)

func withoutTautulli() envOption {
	return func(d *Deps) { d.Tautulli = nil }
}

func withCacheTTL(ttl time.Duration) envOption {
	return func(d *Deps) { d.Cache = cache.New("test", ttl) }
}

func testConfig() *config.Config {
	return &config.Config{
		Tautulli: config.TautulliConfig{
			URL:             "http://tautulli:8181",
			APIKey:          "secret",
			AllowedCommands: []string{"get_*", "arnold"},
		},
		Server:   config.ServerConfig{PublicBaseURL: "https://dash.example"},
		API:      config.APIConfig{CacheTTL: time.Minute},
		Security: config.SecurityConfig{CORSOrigins: []string{"http://localhost:5173"}, RateLimitDisabled: true},
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	rec := &recorder{}

	st, err := store.Open(filepath.Join(t.TempDir(), "formats.json"), rec)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	posters := poster.NewService(poster.Config{UpstreamRPS: 1000, UpstreamBurst: 1000}, poster.Deps{
		Sources:   []poster.Source{imageSource{}},
		Publisher: rec,
	})

	fake := newFakeTautulli()
	deps := Deps{
		Config:    testConfig(),
		Store:     st,
		Posters:   posters,
		Logs:      logging.NewBuffer(50),
		Tautulli:  fake,
		Publisher: rec,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	if deps.Cache == nil {
		deps.Cache = cache.New("test", time.Minute)
	}
	t.Cleanup(deps.Cache.Close)

	h := NewHandler(deps)
	return &testEnv{
		handler:  h,
		router:   NewRouter(h),
		tautulli: fake,
		store:    st,
		cache:    deps.Cache,
		logs:     deps.Logs,
		events:   rec,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope is models.APIResponse with the payload left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w, nil)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}
