// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package format

import (
	"fmt"
	"strings"
	"sync"
)

// Template is a compiled format string. It is safe for concurrent use.
type Template struct {
	source string
	parts  []part
}

type part struct {
	literal string
	expr    *expr
}

type expr struct {
	name        string
	fallback    string
	hasFallback bool
	filters     []boundFilter
}

type boundFilter struct {
	name string
	arg  string
	fn   filterFunc
}

// Compile parses tmpl.
func Compile(tmpl string) (*Template, error) {
	t := &Template{source: tmpl}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			lit.WriteByte(c)
			continue
		}
		switch tmpl[i+1] {
		case '$':
			lit.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated ${ at offset %d", i)
			}
			e, err := parseExpr(tmpl[i+2 : i+2+end])
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", i, err)
			}
			flush()
			t.parts = append(t.parts, part{expr: e})
			i += 2 + end
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

func parseExpr(body string) (*expr, error) {
	segments := strings.Split(body, "|")
	head := strings.TrimSpace(segments[0])

	e := &expr{name: head}
	if name, fallback, ok := strings.Cut(head, ":-"); ok {
		e.name = strings.TrimSpace(name)
		e.fallback = fallback
		e.hasFallback = true
	}
	if e.name == "" {
		return nil, fmt.Errorf("empty variable name in ${%s}", body)
	}

	for _, seg := range segments[1:] {
		name, arg, _ := strings.Cut(seg, ":")
		name = strings.TrimSpace(name)
		fn, ok := filters[name]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", name)
		}
		e.filters = append(e.filters, boundFilter{name: name, arg: arg, fn: fn})
	}
	return e, nil
}

// Source returns the text the template was compiled from.
func (t *Template) Source() string { return t.source }

// Variables lists the variable names referenced by the template.
func (t *Template) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range t.parts {
		if p.expr != nil && !seen[p.expr.name] {
			seen[p.expr.name] = true
			names = append(names, p.expr.name)
		}
	}
	return names
}

// Render substitutes vars into the template.
func (t *Template) Render(vars map[string]string) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.expr == nil {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(p.expr.eval(vars))
	}
	return b.String()
}

func (e *expr) eval(vars map[string]string) string {
	v := vars[e.name]
	if v == "" && e.hasFallback {
		v = e.fallback
	}
	for _, f := range e.filters {
		v = f.fn(v, f.arg)
	}
	return v
}

// compiled caches templates by source; formats.json holds a few dozen at most.
var compiled = struct {
	sync.RWMutex
	m map[string]*Template
}{m: make(map[string]*Template)}

const maxCompiled = 512

// Lookup returns the compiled form of tmpl, compiling it on first use.
func Lookup(tmpl string) (*Template, error) {
	compiled.RLock()
	t, ok := compiled.m[tmpl]
	compiled.RUnlock()
	if ok {
		return t, nil
	}

	t, err := Compile(tmpl)
	if err != nil {
		return nil, err
	}

	compiled.Lock()
	if len(compiled.m) >= maxCompiled {
		compiled.m = make(map[string]*Template)
	}
	compiled.m[tmpl] = t
	compiled.Unlock()
	return t, nil
}

// Render compiles (or reuses) tmpl and renders it.
func Render(tmpl string, vars map[string]string) (string, error) {
	t, err := Lookup(tmpl)
	if err != nil {
		return "", err
	}
	return t.Render(vars), nil
}
