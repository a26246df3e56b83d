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

package quarry

//go:generate go run ./cmd/musgen

import (
	"strings"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/poiesic/quarry/ingestion"
)

// Entry is a searchable catalog document. Its mus-go serializer, EntryMUS,
// is generated by cmd/musgen; Published round-trips at microsecond
// precision in the local time zone.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	Published time.Time `json:"published"`
}

// EntryID returns e.ID, or a content id derived from the title and body
// when the entry has none.
func EntryID(e Entry) string {
	if id := strings.TrimSpace(e.ID); id != "" {
		return id
	}
	return ingestion.ContentID(e.Title + "\n" + e.Body)
}

var _ mus.Serializer[Entry] = EntryMUS
