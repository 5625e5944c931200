// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/format"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/validation"
)

var (
	// ErrUnknownDocument is returned for kinds other than config, formats and sections.
	ErrUnknownDocument = errors.New("store: unknown document kind")
	// ErrSectionNotFound is returned when no section has the requested id.
	ErrSectionNotFound = errors.New("store: section not found")
)

// Store owns formats.json.
type Store struct {
	path      string
	publisher events.Publisher

	mu        sync.RWMutex
	doc       Document
	lastBytes []byte // what we last wrote or read, to ignore our own watch events
}

// Open loads path, seeding it with defaults when missing. publisher may be nil.
func Open(path string, publisher events.Publisher) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{path: path, publisher: publisher}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info().Str("path", path).Msg("Creating formats.json with defaults")
		return s, s.seed()
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := parseDocument(data)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405Z"))
		logging.Warn().Err(err).Str("path", path).Str("moved_to", aside).Msg("formats.json is corrupt, replacing with defaults")
		if rerr := os.Rename(path, aside); rerr != nil {
			return nil, fmt.Errorf("move corrupt file aside: %w", rerr)
		}
		return s, s.seed()
	}

	s.doc = doc
	s.lastBytes = data
	logging.Info().Str("path", path).Int("sections", len(doc.Sections)).Msg("formats.json loaded")
	return s, nil
}

func (s *Store) seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = DefaultDocument()
	return s.writeLocked()
}

// parseDocument decodes and validates a whole file.
func parseDocument(data []byte) (Document, error) {
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return Document{}, fmt.Errorf("parse: %w", err)
	}
	for _, kind := range Kinds {
		raw, ok := parts[kind]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := validateKind(kind, raw, putSchemas); err != nil {
			return Document{}, err
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	doc.fillDefaults()
	return doc, nil
}

// validateKind runs the JSON Schema and the struct level rules for kind.
func validateKind(kind string, raw []byte, schemas map[string]*gojsonschema.Schema) error {
	if err := validateSchema(schemas, kind, raw); err != nil {
		return err
	}
	switch kind {
	case KindFormats:
		var f format.Formats
		if err := json.Unmarshal(raw, &f); err != nil {
			return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
		}
		if err := f.Validate(); err != nil {
			return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
		}
	case KindSections:
		var sections []Section
		if err := json.Unmarshal(raw, &sections); err != nil {
			return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
		}
		return validateSections(sections, false)
	}
	return nil
}

func validateSections(sections []Section, allowDuplicates bool) error {
	seen := make(map[string]bool, len(sections))
	var problems []string
	for i := range sections {
		if verr := validation.ValidateStruct(&sections[i]); verr != nil {
			problems = append(problems, fmt.Sprintf("sections[%d]: %s", i, verr.Error()))
		}
		if seen[sections[i].ID] && !allowDuplicates {
			problems = append(problems, fmt.Sprintf("sections[%d]: duplicate id %q", i, sections[i].ID))
		}
		seen[sections[i].ID] = true
	}
	if len(problems) > 0 {
		return &ValidationError{Kind: KindSections, Problems: problems}
	}
	return nil
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// Get returns the JSON of kind.
func (s *Store) Get(kind string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.field(kind)
}

// Formats returns a copy of the display templates.
func (s *Store) Formats() format.Formats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.clone().Formats
}

// Sections returns a copy of the configured sections, in order.
func (s *Store) Sections() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Section(nil), s.doc.Sections...)
}

// Section returns the section with id.
func (s *Store) Section(id string) (Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.doc.Sections {
		if sec.ID == id {
			return sec, nil
		}
	}
	return Section{}, ErrSectionNotFound
}

// Put replaces kind with raw.
func (s *Store) Put(ctx context.Context, kind string, raw json.RawMessage) error {
	if err := validateKind(kind, raw, putSchemas); err != nil {
		metrics.RecordStoreWrite(kind, err)
		return err
	}
	return s.update(ctx, kind, func(doc *Document) error {
		return assign(doc, kind, raw)
	})
}

// Patch merges raw into kind. For config and formats, object keys are
// merged and null deletes a key; formats merge per category. For sections,
// raw is an array whose entries replace the section with the same id or are
// appended.
func (s *Store) Patch(ctx context.Context, kind string, raw json.RawMessage) error {
	if err := validateSchema(patchSchemas, kind, raw); err != nil {
		metrics.RecordStoreWrite(kind, err)
		return err
	}
	return s.update(ctx, kind, func(doc *Document) error {
		switch kind {
		case KindConfig:
			merged, err := mergeObject(doc.Config, raw)
			if err != nil {
				return err
			}
			doc.Config = merged
			return nil
		case KindFormats:
			return mergeFormats(doc, raw)
		default:
			return upsertSections(doc, raw)
		}
	})
}

// DeleteSection removes the section with id.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	return s.update(ctx, KindSections, func(doc *Document) error {
		for i, sec := range doc.Sections {
			if sec.ID == id {
				doc.Sections = append(doc.Sections[:i:i], doc.Sections[i+1:]...)
				return nil
			}
		}
		return ErrSectionNotFound
	})
}

// update applies mutate to a copy of the document under the write lock,
// persists it and swaps it in. The in-memory document only changes when the
// write succeeded.
func (s *Store) update(ctx context.Context, kind string, mutate func(*Document) error) error {
	s.mu.Lock()
	next := s.doc.clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		metrics.RecordStoreWrite(kind, err)
		return err
	}
	if err := validateDocument(&next); err != nil {
		s.mu.Unlock()
		metrics.RecordStoreWrite(kind, err)
		return err
	}
	prev := s.doc
	s.doc = next
	if err := s.writeLocked(); err != nil {
		s.doc = prev
		s.mu.Unlock()
		metrics.RecordStoreWrite(kind, err)
		return err
	}
	s.mu.Unlock()

	metrics.RecordStoreWrite(kind, nil)
	logging.Ctx(ctx).Info().Str("kind", kind).Msg("formats.json updated")
	s.publish(ctx, kind)
	return nil
}

func validateDocument(doc *Document) error {
	if err := doc.Formats.Validate(); err != nil {
		return &ValidationError{Kind: KindFormats, Problems: []string{err.Error()}}
	}
	return validateSections(doc.Sections, false)
}

func (s *Store) publish(ctx context.Context, kind string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.DocumentUpdated(kind)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).Msg("Failed to publish document update")
	}
}

// writeLocked persists s.doc atomically. Callers hold s.mu.
func (s *Store) writeLocked() error {
	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal formats.json: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.lastBytes = data
	return nil
}

// Reload re-reads the file after an external edit. It reports whether the
// document changed. An invalid file is rejected and the current document kept.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.StoreReloads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("read %s: %w", s.path, err)
	}

	s.mu.Lock()
	if bytes.Equal(data, s.lastBytes) {
		s.mu.Unlock()
		metrics.StoreReloads.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	doc, err := parseDocument(data)
	if err != nil {
		s.mu.Unlock()
		metrics.StoreReloads.WithLabelValues("invalid").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("path", s.path).Msg("Ignoring invalid formats.json edit")
		return false, err
	}

	var changed []string
	for _, kind := range Kinds {
		before, _ := s.doc.field(kind)
		after, _ := doc.field(kind)
		if !jsonEqual(before, after) {
			changed = append(changed, kind)
		}
	}
	s.doc = doc
	s.lastBytes = data
	s.mu.Unlock()

	metrics.StoreReloads.WithLabelValues("success").Inc()
	logging.Ctx(ctx).Info().Strs("changed", changed).Msg("formats.json reloaded from disk")
	for _, kind := range changed {
		s.publish(ctx, kind)
	}
	return len(changed) > 0, nil
}
