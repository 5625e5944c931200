// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// recorder is an events.Publisher that keeps what it was given.
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

func (r *recorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Key
	}
	return out
}

func openTestStore(t *testing.T) (*Store, *recorder, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formats.json")
	rec := &recorder{}
	s, err := Open(path, rec)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, rec, path
}

func TestOpen_SeedsDefaults(t *testing.T) {
	s, _, path := openTestStore(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if len(doc.Sections) != len(DefaultDocument().Sections) {
		t.Errorf("sections = %d", len(doc.Sections))
	}
	if _, ok := s.Formats().Pick("recently_added", "movie"); !ok {
		t.Error("default formats missing")
	}
	if raw, _ := s.Get(KindConfig); string(raw) != "{}" {
		t.Errorf("config = %s, want {}", raw)
	}
}

func TestOpen_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formats.json")
	body := `{"config":{"theme":"dark"},"sections":[{"id":"now","type":"activity","enabled":true}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if secs := s.Sections(); len(secs) != 1 || secs[0].ID != "now" {
		t.Errorf("Sections() = %+v", secs)
	}
	// Missing formats are filled in.
	if _, ok := s.Formats().Pick("activity", "movie"); !ok {
		t.Error("missing formats should fall back to defaults")
	}
}

func TestOpen_CorruptFileMovedAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formats.json")
	if err := os.WriteFile(path, []byte(`{"config": {"broken"`), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(s.Sections()) != len(DefaultDocument().Sections) {
		t.Error("corrupt file should be replaced by defaults")
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "formats.json.corrupt-*"))
	if len(matches) != 1 {
		t.Fatalf("corrupt copies = %v, want 1", matches)
	}
	kept, _ := os.ReadFile(matches[0])
	if string(kept) != `{"config": {"broken"` {
		t.Errorf("corrupt copy = %q", kept)
	}
}

func TestOpen_SchemaViolationIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formats.json")
	if err := os.WriteFile(path, []byte(`{"sections":[{"id":"x","type":"bogus"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if matches, _ := filepath.Glob(filepath.Join(dir, "formats.json.corrupt-*")); len(matches) != 1 {
		t.Errorf("expected the invalid file to be moved aside, got %v", matches)
	}
}

func TestPut(t *testing.T) {
	s, rec, path := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KindConfig, json.RawMessage(`{"theme":"dark","columns":4}`)); err != nil {
		t.Fatalf("Put(config) error = %v", err)
	}
	raw, _ := s.Get(KindConfig)
	if !jsonEqual(raw, []byte(`{"columns":4,"theme":"dark"}`)) {
		t.Errorf("config = %s", raw)
	}

	if err := s.Put(ctx, KindFormats, json.RawMessage(`{"recently_added":{"movie":"${title|upper}"}}`)); err != nil {
		t.Fatalf("Put(formats) error = %v", err)
	}
	if tmpl, _ := s.Formats().Pick("recently_added", "movie"); tmpl != "${title|upper}" {
		t.Errorf("formats = %q", tmpl)
	}

	sections := `[{"id":"a","type":"users","title":"People","enabled":true}]`
	if err := s.Put(ctx, KindSections, json.RawMessage(sections)); err != nil {
		t.Fatalf("Put(sections) error = %v", err)
	}
	if secs := s.Sections(); len(secs) != 1 || secs[0].Title != "People" {
		t.Errorf("sections = %+v", secs)
	}

	if got := rec.keys(); strings.Join(got, ",") != "config,formats,sections" {
		t.Errorf("published = %v", got)
	}

	// The file on disk matches memory.
	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if secs := reopened.Sections(); len(secs) != 1 || secs[0].ID != "a" {
		t.Errorf("reopened sections = %+v", secs)
	}
}

func TestPut_FailedWriteKeepsPreviousDocument(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dataDir, "formats.json")
	rec := &recorder{}
	s, err := Open(path, rec)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, KindConfig, json.RawMessage(`{"theme":"dark"}`)); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	published := len(rec.keys())

	// With the directory gone the temp file cannot be created.
	moved := dataDir + "-moved"
	if err := os.Rename(dataDir, moved); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, KindConfig, json.RawMessage(`{"theme":"light"}`)); err == nil {
		t.Fatal("Put() succeeded without a writable directory")
	}
	if err := os.Rename(moved, dataDir); err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(before) {
		t.Errorf("file changed by a failed write:\nbefore %s\nafter  %s", before, after)
	}
	if raw, _ := s.Get(KindConfig); !jsonEqual(raw, []byte(`{"theme":"dark"}`)) {
		t.Errorf("Get() after failed write = %s, want the previous document", raw)
	}
	if got := len(rec.keys()); got != published {
		t.Errorf("failed write published %d events", got-published)
	}
	entries, _ := os.ReadDir(dataDir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	// The store keeps working once the directory is back.
	if err := s.Put(ctx, KindConfig, json.RawMessage(`{"theme":"light"}`)); err != nil {
		t.Fatalf("Put() after recovery error = %v", err)
	}
	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if raw, _ := reopened.Get(KindConfig); !jsonEqual(raw, []byte(`{"theme":"light"}`)) {
		t.Errorf("reopened config = %s", raw)
	}
}

func TestPut_Rejects(t *testing.T) {
	s, rec, path := openTestStore(t)
	before, _ := os.ReadFile(path)

	tests := []struct {
		name string
		kind string
		raw  string
	}{
		{"config not object", KindConfig, `[1,2]`},
		{"formats not strings", KindFormats, `{"a":{"movie":5}}`},
		{"formats bad template", KindFormats, `{"a":{"movie":"${title|nope}"}}`},
		{"sections not array", KindSections, `{"id":"x"}`},
		{"section missing type", KindSections, `[{"id":"x"}]`},
		{"section bad id", KindSections, `[{"id":"Has Spaces","type":"users"}]`},
		{"section duplicate id", KindSections, `[{"id":"x","type":"users"},{"id":"x","type":"activity"}]`},
		{"section bad media type", KindSections, `[{"id":"x","type":"recently_added","media_type":"book"}]`},
		{"malformed json", KindConfig, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Put(context.Background(), tt.kind, json.RawMessage(tt.raw))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Put() error = %v, want *ValidationError", err)
			}
		})
	}

	if err := s.Put(context.Background(), "themes", json.RawMessage(`{}`)); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("unknown kind error = %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("rejected writes must not touch the file")
	}
	if len(rec.keys()) != 0 {
		t.Errorf("rejected writes must not publish, got %v", rec.keys())
	}
}

func TestPatch_Config(t *testing.T) {
	s, _, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KindConfig, json.RawMessage(`{"theme":"dark","columns":4,"legacy":true}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Patch(ctx, KindConfig, json.RawMessage(`{"columns":6,"legacy":null,"new":"x"}`)); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	raw, _ := s.Get(KindConfig)
	if !jsonEqual(raw, []byte(`{"theme":"dark","columns":6,"new":"x"}`)) {
		t.Errorf("config = %s", raw)
	}
}

func TestPatch_Formats(t *testing.T) {
	s, _, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KindFormats, json.RawMessage(`{"a":{"movie":"M","episode":"E"},"b":{"default":"B"}}`)); err != nil {
		t.Fatal(err)
	}
	patch := `{"a":{"movie":"M2","episode":null},"b":null,"c":{"track":"T"}}`
	if err := s.Patch(ctx, KindFormats, json.RawMessage(patch)); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	f := s.Formats()
	if f["a"]["movie"] != "M2" {
		t.Errorf("a.movie = %q", f["a"]["movie"])
	}
	if _, ok := f["a"]["episode"]; ok {
		t.Error("a.episode should be deleted")
	}
	if _, ok := f["b"]; ok {
		t.Error("category b should be deleted")
	}
	if f["c"]["track"] != "T" {
		t.Errorf("c.track = %q", f["c"]["track"])
	}

	if err := s.Patch(ctx, KindFormats, json.RawMessage(`{"a":{"movie":"${"}}`)); err == nil {
		t.Error("patch producing an invalid template should fail")
	}
}

func TestPatch_SectionsUpsert(t *testing.T) {
	s, _, _ := openTestStore(t)
	ctx := context.Background()

	patch := `[{"id":"activity","type":"activity","title":"Streaming","enabled":false},{"id":"extra","type":"users","enabled":true}]`
	if err := s.Patch(ctx, KindSections, json.RawMessage(patch)); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	secs := s.Sections()
	if len(secs) != len(DefaultDocument().Sections)+1 {
		t.Fatalf("sections = %d", len(secs))
	}
	act, err := s.Section("activity")
	if err != nil || act.Title != "Streaming" || act.Enabled {
		t.Errorf("activity = %+v, %v", act, err)
	}
	if secs[len(secs)-1].ID != "extra" {
		t.Errorf("new section should be appended, got %s", secs[len(secs)-1].ID)
	}
}

func TestDeleteSection(t *testing.T) {
	s, rec, _ := openTestStore(t)
	ctx := context.Background()

	if err := s.DeleteSection(ctx, "activity"); err != nil {
		t.Fatalf("DeleteSection() error = %v", err)
	}
	if _, err := s.Section("activity"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("Section() error = %v", err)
	}
	if err := s.DeleteSection(ctx, "activity"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("second delete error = %v", err)
	}
	if got := rec.keys(); len(got) != 1 || got[0] != KindSections {
		t.Errorf("published = %v", got)
	}
}

func TestReload(t *testing.T) {
	s, rec, path := openTestStore(t)
	ctx := context.Background()

	// Our own write is not reported as a change.
	changed, err := s.Reload(ctx)
	if err != nil || changed {
		t.Fatalf("Reload() = %v, %v; want false, nil", changed, err)
	}

	edited := `{"config":{"theme":"light"},"formats":{"default":{"default":"${title}"}},"sections":[{"id":"only","type":"users"}]}`
	if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
		t.Fatal(err)
	}
	changed, err = s.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("Reload() = %v, %v; want true, nil", changed, err)
	}
	if secs := s.Sections(); len(secs) != 1 || secs[0].ID != "only" {
		t.Errorf("sections = %+v", secs)
	}
	if got := strings.Join(rec.keys(), ","); got != "config,formats,sections" {
		t.Errorf("published = %s", got)
	}

	// A broken edit is rejected and the current document kept.
	if err := os.WriteFile(path, []byte(`{"sections":`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Reload(ctx); err == nil {
		t.Error("expected error for invalid edit")
	}
	raw, _ := s.Get(KindConfig)
	if !jsonEqual(raw, []byte(`{"theme":"light"}`)) {
		t.Errorf("config after bad edit = %s", raw)
	}
}

func TestConcurrentWrites(t *testing.T) {
	s, _, path := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			patch := `{"k` + string(rune('a'+i)) + `":` + "1" + `}`
			if err := s.Patch(ctx, KindConfig, json.RawMessage(patch)); err != nil {
				t.Errorf("Patch() error = %v", err)
			}
			_, _ = s.Get(KindConfig)
		}(i)
	}
	wg.Wait()

	var cfg map[string]int
	raw, _ := s.Get(KindConfig)
	if err := json.Unmarshal(raw, &cfg); err != nil || len(cfg) != 20 {
		t.Fatalf("config has %d keys, want 20 (err %v)", len(cfg), err)
	}

	data, _ := os.ReadFile(path)
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("file not valid after concurrent writes: %v", err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".formats.json.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
