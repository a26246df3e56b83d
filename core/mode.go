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
	"strings"
)

// Mode is the classified intent of a query.
type Mode int

const (
	// ModeSpecific is an exact lookup.
	ModeSpecific Mode = iota + 1
	// ModeVague is a topic search.
	ModeVague
	// ModeExploratory is a guided browse.
	ModeExploratory
)

var modeNames = map[Mode]string{
	ModeSpecific:    "specific",
	ModeVague:       "vague",
	ModeExploratory: "exploratory",
}

// Modes returns every valid mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeSpecific, ModeVague, ModeExploratory}
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode converts a mode name, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if modeNames[m] == name {
			return m, nil
		}
	}
	names := make([]string, 0, len(modeNames))
	for _, m := range Modes() {
		names = append(names, m.String())
	}
	return 0, Invalid(ErrInvalidMode, fmt.Sprintf("%q (valid modes: %s)", s, strings.Join(names, ", ")))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, Invalid(ErrInvalidMode, m.String())
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
