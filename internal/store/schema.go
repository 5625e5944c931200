// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package store

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object"
}`

const formatsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "maxProperties": 64,
  "additionalProperties": {
    "type": "object",
    "maxProperties": 64,
    "additionalProperties": {"type": "string", "maxLength": 1024}
  }
}`

const sectionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "maxItems": 100,
  "items": {
    "type": "object",
    "required": ["id", "type"],
    "properties": {
      "id": {"type": "string", "minLength": 1, "maxLength": 64},
      "type": {"enum": ["recently_added", "activity", "users", "libraries"]},
      "title": {"type": "string"},
      "library_section_id": {"type": "string"},
      "media_type": {"type": "string"},
      "count": {"type": "integer", "minimum": 0},
      "format_category": {"type": "string"},
      "enabled": {"type": "boolean"}
    }
  }
}`

// Patch bodies for config and formats may carry null to delete a key.
const configPatchSchema = `{"type": "object"}`

const formatsPatchSchema = `{
  "type": "object",
  "additionalProperties": {
    "type": ["object", "null"],
    "additionalProperties": {"type": ["string", "null"], "maxLength": 1024}
  }
}`

var (
	putSchemas   = mustCompile(map[string]string{KindConfig: configSchema, KindFormats: formatsSchema, KindSections: sectionsSchema})
	patchSchemas = mustCompile(map[string]string{KindConfig: configPatchSchema, KindFormats: formatsPatchSchema, KindSections: sectionsSchema})
)

func mustCompile(sources map[string]string) map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(sources))
	for kind, src := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("store: compile %s schema: %v", kind, err))
		}
		out[kind] = schema
	}
	return out
}

// ValidationError lists why a document was rejected.
type ValidationError struct {
	Kind     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Kind, strings.Join(e.Problems, "; "))
}

func validateSchema(schemas map[string]*gojsonschema.Schema, kind string, raw []byte) error {
	schema, ok := schemas[kind]
	if !ok {
		return ErrUnknownDocument
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return &ValidationError{Kind: kind, Problems: problems}
}
