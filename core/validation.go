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

package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Invalid wraps err so that it matches both ErrInvalidArgument and err.
func Invalid(err error, detail string) error {
	if detail == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return fmt.Errorf("%w: %w: %s", ErrInvalidArgument, err, detail)
}

// ValidateID rejects blank document identifiers.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return Invalid(ErrEmptyID, "")
	}
	return nil
}

// ValidateDocument rejects absent documents: nil interfaces, pointers,
// maps, slices, funcs and channels.
func ValidateDocument(doc any) error {
	if IsNil(doc) {
		return Invalid(ErrNilDocument, "")
	}
	return nil
}

// ValidateMaxResults rejects result caps below 1.
func ValidateMaxResults(n int) error {
	if n < 1 {
		return Invalid(ErrInvalidMaxResults, fmt.Sprintf("got %d", n))
	}
	return nil
}

// IsNil reports whether v is nil or a typed nil.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
