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

import "errors"

// ErrInvalidArgument is wrapped by every construction-time validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// Domain validation errors
var (
	// ErrEmptyID indicates a blank document identifier.
	ErrEmptyID = errors.New("document id cannot be empty")

	// ErrNilDocument indicates an absent document.
	ErrNilDocument = errors.New("document cannot be nil")

	// ErrInvalidMaxResults indicates a result cap below 1.
	ErrInvalidMaxResults = errors.New("max results must be at least 1")

	// ErrInvalidMode indicates a mode name that does not parse.
	ErrInvalidMode = errors.New("invalid mode")
)
