// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package store

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// assign replaces one kind wholesale. raw has been validated.
func assign(doc *Document, kind string, raw json.RawMessage) error {
	switch kind {
	case KindConfig:
		doc.Config = append(json.RawMessage(nil), raw...)
		return nil
	case KindFormats:
		doc.Formats = nil
		return json.Unmarshal(raw, &doc.Formats)
	case KindSections:
		doc.Sections = nil
		if err := json.Unmarshal(raw, &doc.Sections); err != nil {
			return err
		}
		if doc.Sections == nil {
			doc.Sections = []Section{}
		}
		return nil
	default:
		return ErrUnknownDocument
	}
}

// mergeObject shallow-merges patch into base. A null value deletes the key.
func mergeObject(base, patch json.RawMessage) (json.RawMessage, error) {
	current := map[string]json.RawMessage{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &current); err != nil {
			return nil, fmt.Errorf("decode current config: %w", err)
		}
	}
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return nil, &ValidationError{Kind: KindConfig, Problems: []string{err.Error()}}
	}
	for k, v := range changes {
		if isNull(v) {
			delete(current, k)
			continue
		}
		current[k] = v
	}
	return json.Marshal(current)
}

// mergeFormats merges a formats patch category by category.
func mergeFormats(doc *Document, patch json.RawMessage) error {
	var changes map[string]map[string]*string
	var nulls map[string]json.RawMessage
	if err := json.Unmarshal(patch, &nulls); err != nil {
		return &ValidationError{Kind: KindFormats, Problems: []string{err.Error()}}
	}
	for cat, v := range nulls {
		if isNull(v) {
			delete(doc.Formats, cat)
			delete(nulls, cat)
		}
	}
	remaining, err := json.Marshal(nulls)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(remaining, &changes); err != nil {
		return &ValidationError{Kind: KindFormats, Problems: []string{err.Error()}}
	}

	for cat, byType := range changes {
		target, ok := doc.Formats[cat]
		if !ok {
			target = map[string]string{}
			doc.Formats[cat] = target
		}
		for mediaType, tmpl := range byType {
			if tmpl == nil {
				delete(target, mediaType)
				continue
			}
			target[mediaType] = *tmpl
		}
		if len(target) == 0 {
			delete(doc.Formats, cat)
		}
	}
	return nil
}

// upsertSections replaces sections by id and appends new ones.
func upsertSections(doc *Document, patch json.RawMessage) error {
	var incoming []Section
	if err := json.Unmarshal(patch, &incoming); err != nil {
		return &ValidationError{Kind: KindSections, Problems: []string{err.Error()}}
	}
	if err := validateSections(incoming, false); err != nil {
		return err
	}

	index := make(map[string]int, len(doc.Sections))
	for i, sec := range doc.Sections {
		index[sec.ID] = i
	}
	for _, sec := range incoming {
		if i, ok := index[sec.ID]; ok {
			doc.Sections[i] = sec
			continue
		}
		index[sec.ID] = len(doc.Sections)
		doc.Sections = append(doc.Sections, sec)
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// jsonEqual compares two JSON values ignoring formatting and key order.
func jsonEqual(a, b []byte) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return bytes.Equal(a, b)
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return bytes.Equal(ca, cb)
}
