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

// Package classify maps normalized query text to an intent mode.
package classify

import "github.com/poiesic/quarry/core"

// Classifier decides the intent mode of a normalized query.
// Implementations must be pure and safe for concurrent use.
type Classifier interface {
	Classify(input string) core.Mode
}

// Func adapts a plain function to Classifier.
type Func func(input string) core.Mode

// Classify calls f(input).
func (f Func) Classify(input string) core.Mode {
	return f(input)
}

// Fixed returns a Classifier that always answers mode.
func Fixed(mode core.Mode) Classifier {
	return Func(func(string) core.Mode { return mode })
}

var (
	_ Classifier = Func(nil)
	_ Classifier = (*Rules)(nil)
)
