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

package rerank

import (
	"log/slog"

	"github.com/poiesic/recommendit/core"
)

// Reranker applies deterministic constraint heuristics on top of the
// similarity-ordered candidate list. It holds no state beyond a logger;
// the same query and candidates always yield the same output.
type Reranker struct {
	logger *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a Reranker.
func New(opts ...Option) (*Reranker, error) {
	r := &Reranker{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rerank applies the duration filter followed by domain balancing and
// returns at most k candidates. Candidates must arrive ordered by
// descending retrieval score; relative order is preserved within every
// selection step.
func (r *Reranker) Rerank(query string, candidates []core.Candidate, k int) []core.Candidate {
	if k <= 0 {
		return nil
	}

	maxMinutes, hasMax := InferMaxDuration(query)
	domains := InferDesiredDomains(query)

	r.logger.Info("duration constraint", "present", hasMax, "maxMinutes", maxMinutes)
	if hasMax {
		candidates = ApplyDurationFilter(candidates, maxMinutes)
	}
	r.logger.Info("after duration filter", "count", len(candidates))

	balanced := BalanceByDomains(candidates, domains, k)
	r.logger.Info("after domain balancing", "count", len(balanced),
		"technical", domains.Technical, "behavioral", domains.Behavioral, "cognitive", domains.Cognitive)

	if len(balanced) > k {
		balanced = balanced[:k]
	}
	return balanced
}

// ApplyDurationFilter drops candidates whose known duration exceeds
// maxMinutes. Candidates with unknown duration are kept; dropping them
// would punish sparse catalog entries for missing data.
func ApplyDurationFilter(candidates []core.Candidate, maxMinutes int) []core.Candidate {
	filtered := make([]core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Item.DurationMinutes == nil || *c.Item.DurationMinutes <= maxMinutes {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// BalanceByDomains reserves an even share of the k slots for each domain
// the query asks for, then fills whatever is left from the remaining
// candidates in retrieval order. A query naming no domain gets the plain
// top k.
//
// With d requested domains each gets max(1, k/d) reserved slots, taken
// from that domain's candidates in retrieval order. Reserved slots a
// domain cannot fill flow back into the shared remainder.
func BalanceByDomains(candidates []core.Candidate, domains DesiredDomains, k int) []core.Candidate {
	if !domains.Any() {
		if k > len(candidates) {
			k = len(candidates)
		}
		return candidates[:k]
	}

	var techIdx, behavIdx, cogIdx []int
	for i, c := range candidates {
		switch CategorizeTestType(c.Item.TestType) {
		case DomainTechnical:
			techIdx = append(techIdx, i)
		case DomainBehavioral:
			behavIdx = append(behavIdx, i)
		case DomainCognitive:
			cogIdx = append(cogIdx, i)
		}
	}

	slotsPerDomain := k / domains.count()
	if slotsPerDomain < 1 {
		slotsPerDomain = 1
	}

	selected := make([]bool, len(candidates))
	result := make([]core.Candidate, 0, k)

	take := func(idx []int) {
		n := slotsPerDomain
		if n > len(idx) {
			n = len(idx)
		}
		for _, i := range idx[:n] {
			selected[i] = true
			result = append(result, candidates[i])
		}
	}

	if domains.Technical {
		take(techIdx)
	}
	if domains.Behavioral {
		take(behavIdx)
	}
	if domains.Cognitive {
		take(cogIdx)
	}

	for i, c := range candidates {
		if len(result) >= k {
			break
		}
		if selected[i] {
			continue
		}
		result = append(result, c)
	}

	if len(result) > k {
		result = result[:k]
	}
	return result
}
