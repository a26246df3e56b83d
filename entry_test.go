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

import (
	"testing"
	"time"

	"github.com/poiesic/quarry/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryMUS(t *testing.T) {
	t.Run("full entry", func(t *testing.T) {
		e := Entry{
			ID:        "go-101",
			Title:     "Go Concurrency Patterns",
			Body:      "Pipelines, fan-in and cancellation.",
			Category:  "go",
			Tags:      []string{"concurrency", "channels"},
			Published: time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC),
		}

		data := storage.Marshal(EntryMUS, e)
		assert.Len(t, data, EntryMUS.Size(e))

		got, err := storage.Unmarshal(EntryMUS, data)
		require.NoError(t, err)
		assert.True(t, e.Published.Equal(got.Published))
		got.Published = e.Published
		assert.Equal(t, e, got)

		n, err := EntryMUS.Skip(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
	})

	t.Run("zero published time and no tags", func(t *testing.T) {
		e := Entry{ID: "bare", Title: "Untitled"}

		got, err := storage.Unmarshal(EntryMUS, storage.Marshal(EntryMUS, e))
		require.NoError(t, err)
		assert.True(t, got.Published.IsZero())
		assert.Empty(t, got.Tags)
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, e.Title, got.Title)
	})

	t.Run("truncated data", func(t *testing.T) {
		data := storage.Marshal(EntryMUS, Entry{ID: "x", Title: "y", Tags: []string{"t"}})
		_, err := storage.Unmarshal(EntryMUS, data[:len(data)-3])
		assert.ErrorIs(t, err, storage.ErrSerializationFailed)
	})

	t.Run("sub-microsecond precision is dropped", func(t *testing.T) {
		ts := time.Date(2025, 1, 2, 3, 4, 5, 6_789_123, time.UTC)
		got, err := storage.Unmarshal(EntryMUS, storage.Marshal(EntryMUS, Entry{ID: "p", Published: ts}))
		require.NoError(t, err)
		assert.True(t, ts.Truncate(time.Microsecond).Equal(got.Published))
	})
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, "explicit", EntryID(Entry{ID: " explicit "}))

	derived := EntryID(Entry{Title: "t", Body: "b"})
	assert.Len(t, derived, 16)
	assert.Equal(t, derived, EntryID(Entry{Title: "t", Body: "b"}))
	assert.NotEqual(t, derived, EntryID(Entry{Title: "t", Body: "c"}))
}
