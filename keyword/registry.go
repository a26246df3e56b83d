// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyword

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/quarry/core"
)

// prefixLen is the number of leading characters compared by the fallback pass.
const prefixLen = 3

// Registry is an immutable keyword to value table.
type Registry[V comparable] struct {
	entries  map[string]V
	keywords []string
}

// Builder accumulates keywords for a Registry.
// Errors are deferred until Build.
type Builder[V comparable] struct {
	entries  map[string]V
	keywords []string
	err      error
}

// NewBuilder creates an empty Builder.
func NewBuilder[V comparable]() *Builder[V] {
	return &Builder[V]{entries: make(map[string]V)}
}

// Register maps keyword to value. The keyword is trimmed and lower-cased.
// Registering a keyword again replaces its value but keeps its position.
func (b *Builder[V]) Register(keyword string, value V) *Builder[V] {
	if b.err != nil {
		return b
	}
	key := core.Normalize(keyword)
	if key == "" {
		b.err = core.Invalid(ErrEmptyKeyword, "")
		return b
	}
	if _, exists := b.entries[key]; !exists {
		b.keywords = append(b.keywords, key)
	}
	b.entries[key] = value
	return b
}

// RegisterAll maps every keyword to the same value.
func (b *Builder[V]) RegisterAll(value V, keywords ...string) *Builder[V] {
	for _, kw := range keywords {
		b.Register(kw, value)
	}
	return b
}

// Build returns the Registry, or the first registration error.
func (b *Builder[V]) Build() (*Registry[V], error) {
	if b.err != nil {
		return nil, b.err
	}
	entries := make(map[string]V, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Registry[V]{
		entries:  entries,
		keywords: slices.Clone(b.keywords),
	}, nil
}

// Lookup returns the value registered for keyword, matched exactly after normalization.
func (r *Registry[V]) Lookup(keyword string) (V, bool) {
	v, ok := r.entries[core.Normalize(keyword)]
	return v, ok
}

// Len returns the number of registered keywords.
func (r *Registry[V]) Len() int {
	return len(r.keywords)
}

// Keywords returns the registered keywords in registration order.
func (r *Registry[V]) Keywords() []string {
	return slices.Clone(r.keywords)
}

// WithPrefix returns the registered keywords that start with the first
// three characters of word, in registration order.
func (r *Registry[V]) WithPrefix(word string) []string {
	prefix, ok := leadingChars(core.Normalize(word), prefixLen)
	if !ok {
		return nil
	}
	var matches []string
	for _, kw := range r.keywords {
		if strings.HasPrefix(kw, prefix) {
			matches = append(matches, kw)
		}
	}
	return matches
}

// InferFromQuery returns the distinct values recognized in query, in the
// order they were found.
func (r *Registry[V]) InferFromQuery(query string) []V {
	normalized := core.Normalize(query)
	words := strings.Fields(normalized)

	var found []V
	seen := make(map[V]struct{})
	add := func(v V) {
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		found = append(found, v)
	}

	// Exact word matches
	for _, word := range words {
		if v, ok := r.entries[word]; ok {
			add(v)
		}
	}

	// Phrase matches
	for _, kw := range r.keywords {
		if strings.Contains(kw, " ") && strings.Contains(normalized, kw) {
			add(r.entries[kw])
		}
	}

	if len(found) > 0 {
		return found
	}

	for _, word := range words {
		prefix, ok := leadingChars(word, prefixLen)
		if !ok {
			continue
		}
		for _, kw := range r.keywords {
			if strings.HasPrefix(kw, prefix) {
				add(r.entries[kw])
				break
			}
		}
	}

	return found
}

// leadingChars returns the first n characters of s, or false when s is shorter.
func leadingChars(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) < n {
		return "", false
	}
	end := 0
	for i := 0; i < n; i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[:end], true
}
