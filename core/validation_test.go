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
	"errors"
	"testing"
)

type doc struct{ title string }

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "valid id", id: "doc-1", wantErr: nil},
		{name: "empty id", id: "", wantErr: ErrEmptyID},
		{name: "blank id", id: "   ", wantErr: ErrEmptyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateID() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateID() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ValidateID() error = %v, want it to wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	var nilPtr *doc
	var nilMap map[string]string

	tests := []struct {
		name    string
		doc     any
		wantErr bool
	}{
		{name: "struct value", doc: doc{title: "x"}, wantErr: false},
		{name: "pointer", doc: &doc{title: "x"}, wantErr: false},
		{name: "string", doc: "", wantErr: false},
		{name: "nil interface", doc: nil, wantErr: true},
		{name: "typed nil pointer", doc: nilPtr, wantErr: true},
		{name: "nil map", doc: nilMap, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr && !errors.Is(err, ErrNilDocument) {
				t.Errorf("ValidateDocument() error = %v, want ErrNilDocument", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateDocument() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateMaxResults(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		err := ValidateMaxResults(n)
		if !errors.Is(err, ErrInvalidMaxResults) || !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ValidateMaxResults(%d) error = %v", n, err)
		}
	}
	if err := ValidateMaxResults(1); err != nil {
		t.Errorf("ValidateMaxResults(1) unexpected error = %v", err)
	}
}
