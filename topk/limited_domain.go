//
// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package topk

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/dp-topk/go/checks"
	"github.com/google/dp-topk/go/noise"
	"github.com/google/dp-topk/go/rand"
)

// LimitedDomainOptions configures SelectViaLimitedDomain.
type LimitedDomainOptions struct {
	// EpsilonIteration is the per-round budget ε_it, as calibrated by
	// PerRoundEpsilon. Required.
	EpsilonIteration float64
	// Delta is the total failure probability of the guarantee. Required.
	Delta float64
	// K is the number of indices to select. Required.
	K int
	// KBar is the truncation size bounding how much of the vector the
	// mechanism examines, typically sampled per trial from a
	// KBarDistribution. Must be at least K.
	KBar int
	// Rand supplies the randomness for the trial. Defaults to the
	// process-wide crypto-backed source.
	Rand *rand.Source
	// Noise generates the Gumbel perturbations. Defaults to a generator
	// backed by Rand.
	Noise noise.Generator
}

// SelectViaLimitedDomain performs differentially private top-k selection on
// counts sorted in descending order, by adding Gumbel noise to the first
// kbar counts and releasing, in descending noisy order, the indices whose
// noisy counts exceed a noisy bottom threshold computed from the count just
// past the truncation bound.
//
// The result holds at most k indices and may be shorter, including empty,
// when fewer noisy counts clear the threshold; that is a valid outcome, not
// an error. Every call draws fresh noise; counts is never modified.
func SelectViaLimitedDomain(counts []float64, opt *LimitedDomainOptions) ([]int, error) {
	if opt == nil {
		opt = &LimitedDomainOptions{}
	}
	if err := checks.CheckEpsilonStrict(opt.EpsilonIteration, "EpsilonIteration"); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	if err := checks.CheckDeltaStrict(opt.Delta); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	if err := checks.CheckK(opt.K); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	if err := checks.CheckKBar(opt.KBar, opt.K); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	// The bottom threshold reads counts[kbar].
	if err := checks.CheckNumCandidates(counts, opt.KBar+1); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	if err := checks.CheckSortedDescending(counts); err != nil {
		return nil, fmt.Errorf("SelectViaLimitedDomain: %w", err)
	}
	src := opt.Rand
	if src == nil {
		src = rand.Default()
	}
	gen := opt.Noise
	if gen == nil {
		gen = noise.NewGenerator(src)
	}

	scale := 1 / opt.EpsilonIteration
	noisy := make([]float64, opt.KBar)
	order := make([]int, opt.KBar)
	for i := range noisy {
		noisy[i] = counts[i] + gen.Gumbel(scale)
		order[i] = i
	}
	bot := counts[opt.KBar] + 1 + math.Log(float64(opt.KBar)/opt.Delta)/opt.EpsilonIteration + gen.Gumbel(scale)

	sort.Slice(order, func(a, b int) bool { return noisy[order[a]] > noisy[order[b]] })
	selected := make([]int, 0, opt.K)
	for _, idx := range order {
		if len(selected) == opt.K || noisy[idx] <= bot {
			break
		}
		selected = append(selected, idx)
	}
	return selected, nil
}
