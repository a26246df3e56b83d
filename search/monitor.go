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

package search

import (
	"time"

	"github.com/poiesic/quarry/core"
)

// Stage names a pipeline step for monitoring.
type Stage string

const (
	StagePreSearch   Stage = "pre_search"
	StageClassify    Stage = "classify"
	StageFilter      Stage = "filter"
	StageScore       Stage = "score"
	StageRank        Stage = "rank"
	StageSummary     Stage = "summary"
	StageSuggestions Stage = "suggestions"
	StagePostSearch  Stage = "post_search"
)

// Monitor provides hooks to observe the search pipeline.
// Implementations must be safe for concurrent use.
type Monitor interface {
	Start(q core.Query)
	Classified(mode core.Mode, forced bool)
	Filtered(total, candidates int)
	Scored(candidates, survivors int)
	// Degraded reports a strategy panic that was recovered.
	Degraded(stage Stage, recovered any)
	Failed(err error)
	Finish(mode core.Mode, results int, elapsed time.Duration)
}

type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)                         {}
func (n *noopMonitor) Classified(_ core.Mode, _ bool)             {}
func (n *noopMonitor) Filtered(_, _ int)                          {}
func (n *noopMonitor) Scored(_, _ int)                            {}
func (n *noopMonitor) Degraded(_ Stage, _ any)                    {}
func (n *noopMonitor) Failed(_ error)                             {}
func (n *noopMonitor) Finish(_ core.Mode, _ int, _ time.Duration) {}
