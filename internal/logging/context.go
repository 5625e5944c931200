// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey struct{}

// ctxFields are the log fields carried by a context. Each With* helper
// copies the struct, so parent contexts never observe a child's fields.
type ctxFields struct {
	requestID     string
	correlationID string
	task          string
}

func fieldsFrom(ctx context.Context) ctxFields {
	if f, ok := ctx.Value(ctxKey{}).(ctxFields); ok {
		return f
	}
	return ctxFields{}
}

func withFields(ctx context.Context, edit func(*ctxFields)) context.Context {
	f := fieldsFrom(ctx)
	edit(&f)
	return context.WithValue(ctx, ctxKey{}, f)
}

// GenerateCorrelationID returns an 8 character ID for grouping log lines.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.NewString()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *ctxFields) { f.correlationID = id })
}

func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

func CorrelationIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).correlationID
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withFields(ctx, func(f *ctxFields) { f.requestID = id })
}

func RequestIDFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).requestID
}

// ContextWithTask tags background work, such as one poster GC pass, with
// the task name and a fresh correlation ID.
func ContextWithTask(ctx context.Context, task string) context.Context {
	return withFields(ctx, func(f *ctxFields) {
		f.task = task
		f.correlationID = GenerateCorrelationID()
	})
}

// TaskFromContext returns the background task name, or "".
func TaskFromContext(ctx context.Context) string {
	return fieldsFrom(ctx).task
}

// Ctx returns the global logger with the context's request, correlation
// and task fields attached.
//
//	logging.Ctx(ctx).Warn().Str("rating_key", key).Msg("tmdb lookup failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	f := fieldsFrom(ctx)
	logCtx := Logger().With()
	if f.correlationID != "" {
		logCtx = logCtx.Str("correlation_id", f.correlationID)
	}
	if f.requestID != "" {
		logCtx = logCtx.Str("request_id", f.requestID)
	}
	if f.task != "" {
		logCtx = logCtx.Str("task", f.task)
	}
	l := logCtx.Logger()
	return &l
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
