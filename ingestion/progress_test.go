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

package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at each interval", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 10, 5)

		for range 4 {
			tracker.increment()
		}
		assert.Empty(t, buf.String())

		tracker.increment()
		assert.Contains(t, buf.String(), "5/10 (50.0%)")

		for range 5 {
			tracker.increment()
		}
		assert.Contains(t, buf.String(), "10/10 (100.0%)")
		assert.Equal(t, 2, strings.Count(buf.String(), "Progress:"))
	})

	t.Run("never exceeds total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 1, 1)
		tracker.increment()
		tracker.increment()
		tracker.finish()
		assert.NotContains(t, buf.String(), "2/1")
	})

	t.Run("finish ends the line", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := newProgressTracker(&buf, 0, 0)
		tracker.finish()
		assert.Contains(t, buf.String(), "0/0 (100.0%)")
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})

	t.Run("nil tracker is a no-op", func(t *testing.T) {
		var tracker *progressTracker
		assert.NotPanics(t, func() {
			tracker.increment()
			tracker.finish()
		})
	})
}
