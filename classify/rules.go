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

package classify

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/quarry/core"
)

// DefaultExploratoryWordLimit is the longest query, in words, that an
// exploratory keyword can turn into an exploratory browse.
const DefaultExploratoryWordLimit = 5

// shortQueryWords is the word count at or below which a query with no
// known vocabulary is treated as exploratory.
const shortQueryWords = 2

// Rules is an ordered rule classifier. The first matching rule wins:
//  1. a quote character or "http" anywhere in the input is Specific
//  2. any specific trigger phrase is Specific
//  3. a short query holding an exploratory keyword is Exploratory
//  4. a query of at most two words with no known vocabulary is Exploratory
//  5. a single difficulty marker word is Exploratory
//  6. anything else is Vague
type Rules struct {
	specificTriggers    []string
	exploratoryKeywords []string
	knownVocabulary     []string
	difficultyMarkers   map[string]struct{}
	wordLimit           int
	skipUnknownShort    bool
}

// Builder assembles a Rules classifier.
type Builder struct {
	specificTriggers    []string
	exploratoryKeywords []string
	knownVocabulary     []string
	difficultyMarkers   []string
	wordLimit           int
	skipUnknownShort    bool
}

// NewBuilder returns a Builder with empty vocabularies and the default word limit.
func NewBuilder() *Builder {
	return &Builder{wordLimit: DefaultExploratoryWordLimit}
}

// SpecificTriggers adds phrases that mark a query as an exact lookup.
func (b *Builder) SpecificTriggers(phrases ...string) *Builder {
	b.specificTriggers = append(b.specificTriggers, phrases...)
	return b
}

// ExploratoryKeywords adds keywords that mark a short query as browsing.
func (b *Builder) ExploratoryKeywords(keywords ...string) *Builder {
	b.exploratoryKeywords = append(b.exploratoryKeywords, keywords...)
	return b
}

// KnownVocabulary adds domain terms. Short queries that mention none of
// them are classified Exploratory.
func (b *Builder) KnownVocabulary(terms ...string) *Builder {
	b.knownVocabulary = append(b.knownVocabulary, terms...)
	return b
}

// DifficultyMarkers adds words such as "beginner" that, alone, mean browsing.
func (b *Builder) DifficultyMarkers(words ...string) *Builder {
	b.difficultyMarkers = append(b.difficultyMarkers, words...)
	return b
}

// IgnoreUnknownShortQueries disables rule 4, so short queries are no longer
// classified Exploratory just because they mention no known vocabulary.
func (b *Builder) IgnoreUnknownShortQueries() *Builder {
	b.skipUnknownShort = true
	return b
}

// ExploratoryWordLimit sets the word limit used by the exploratory keyword rule.
func (b *Builder) ExploratoryWordLimit(n int) *Builder {
	b.wordLimit = n
	return b
}

// Build validates the configuration and returns the classifier.
func (b *Builder) Build() (*Rules, error) {
	if b.wordLimit < 1 {
		return nil, core.Invalid(ErrInvalidWordLimit, fmt.Sprintf("got %d", b.wordLimit))
	}
	markers := make(map[string]struct{}, len(b.difficultyMarkers))
	for _, m := range normalizeAll(b.difficultyMarkers) {
		markers[m] = struct{}{}
	}
	return &Rules{
		specificTriggers:    normalizeAll(b.specificTriggers),
		exploratoryKeywords: normalizeAll(b.exploratoryKeywords),
		knownVocabulary:     normalizeAll(b.knownVocabulary),
		difficultyMarkers:   markers,
		wordLimit:           b.wordLimit,
		skipUnknownShort:    b.skipUnknownShort,
	}, nil
}

// Classify implements Classifier. Input is normalized again, so raw text is accepted.
func (r *Rules) Classify(input string) core.Mode {
	input = core.Normalize(input)
	words := strings.Fields(input)

	switch {
	case strings.Contains(input, "\"") || strings.Contains(input, "http"):
		return core.ModeSpecific
	case containsAny(input, r.specificTriggers):
		return core.ModeSpecific
	case len(words) <= r.wordLimit && containsAny(input, r.exploratoryKeywords):
		return core.ModeExploratory
	case !r.skipUnknownShort && len(words) <= shortQueryWords && !r.mentionsKnown(input, words):
		return core.ModeExploratory
	case len(words) == 1 && r.isDifficultyMarker(words[0]):
		return core.ModeExploratory
	default:
		return core.ModeVague
	}
}

// mentionsKnown matches vocabulary by word equality or by substring of the
// whole input. The substring check also fires on partial words.
func (r *Rules) mentionsKnown(input string, words []string) bool {
	for _, term := range r.knownVocabulary {
		if slices.Contains(words, term) || strings.Contains(input, term) {
			return true
		}
	}
	return false
}

func (r *Rules) isDifficultyMarker(word string) bool {
	_, ok := r.difficultyMarkers[word]
	return ok
}

func containsAny(input string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(input, p) {
			return true
		}
	}
	return false
}

func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := core.Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
