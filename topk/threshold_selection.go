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

	"github.com/google/dp-topk/go/checks"
	"github.com/google/dp-topk/go/noise"
	"github.com/google/dp-topk/go/rand"
)

// ThresholdOptions configures SelectViaThreshold.
type ThresholdOptions struct {
	// Epsilon1 is the budget spent on the noisy threshold. Required.
	Epsilon1 float64
	// Epsilon2 is the budget spent on the per-gap noise. Required.
	Epsilon2 float64
	// DeltaQ is the calibrated secondary failure probability; see the DeltaQ
	// calibration function. Required.
	DeltaQ float64
	// K is the number of indices to select. Required.
	K int
	// KBar bounds how far past K the gap search may look. Must be at least K.
	KBar int
	// EpsilonEM is the exponential-mechanism budget for the draw performed
	// when the search accepts above K. At 0, the draw is uniform among the
	// accepted prefix.
	EpsilonEM float64
	// Rand supplies the randomness for the trial. Defaults to the
	// process-wide crypto-backed source.
	Rand *rand.Source
	// Noise generates the Laplace perturbations. Defaults to a generator
	// backed by Rand.
	Noise noise.Generator
}

// SelectViaThreshold performs differentially private top-k selection on
// counts sorted in descending order, using a sparse-vector style search for
// a gap between adjacent counts that clears a noisy threshold.
//
// The search visits the gap positions k, k+1, …, kbar and then falls back to
// k−1, k−2, …, 1. At the first position whose noised gap exceeds the noisy
// threshold, the mechanism accepts: if the position is above k it draws k of
// the indices before it via an exponential mechanism without replacement,
// otherwise it releases all indices before it. If no position accepts, the
// result is empty; an empty or short selection is a valid outcome meaning
// the mechanism could not confidently locate a gap.
//
// Every call draws fresh noise; counts is never modified.
func SelectViaThreshold(counts []float64, opt *ThresholdOptions) ([]int, error) {
	if opt == nil {
		opt = &ThresholdOptions{}
	}
	if err := checks.CheckEpsilonStrict(opt.Epsilon1, "Epsilon1"); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckEpsilonStrict(opt.Epsilon2, "Epsilon2"); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckDeltaStrict(opt.DeltaQ, "DeltaQ"); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckEpsilon(opt.EpsilonEM, "EpsilonEM"); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckK(opt.K); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckKBar(opt.KBar, opt.K); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	// The gap at position kbar reads counts[kbar+1].
	if err := checks.CheckNumCandidates(counts, opt.KBar+2); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	if err := checks.CheckSortedDescending(counts); err != nil {
		return nil, fmt.Errorf("SelectViaThreshold: %w", err)
	}
	src := opt.Rand
	if src == nil {
		src = rand.Default()
	}
	gen := opt.Noise
	if gen == nil {
		gen = noise.NewGenerator(src)
	}

	noisyThreshold := math.Log(1/opt.DeltaQ)/(opt.Epsilon2/2) + gen.Laplace(1/opt.Epsilon1)
	for _, i := range searchOrder(opt.K, opt.KBar) {
		// Gap between the i-th and (i+1)-th count, floored at zero so that a
		// negative margin between tied counts cannot trigger a spurious stop.
		gap := math.Max(counts[i]-counts[i+1]-1, 0)
		noisyGap := gap + gen.Laplace(2/opt.Epsilon2)
		if noisyGap > noisyThreshold {
			if i > opt.K {
				return drawWithoutReplacement(counts[:i], opt.K, opt.EpsilonEM, src), nil
			}
			selected := make([]int, i)
			for j := range selected {
				selected[j] = j
			}
			return selected, nil
		}
	}
	return []int{}, nil
}

// searchOrder returns the sequence of gap positions visited by the threshold
// search: k, k+1, …, kbar ascending, then k−1, k−2, …, 1 descending. Every
// position in [1, kbar] appears exactly once. The order determines which gap
// is found first but not the privacy guarantee; keeping it as one explicit
// sequence lets alternative orders be substituted and tested for coverage.
func searchOrder(k, kbar int) []int {
	order := make([]int, 0, kbar)
	for i := k; i <= kbar; i++ {
		order = append(order, i)
	}
	for i := k - 1; i >= 1; i-- {
		order = append(order, i)
	}
	return order
}

// drawWithoutReplacement samples k distinct indices from {0, …, len(counts)−1}
// with probability proportional to exp(epsilonEM·count), removing each index
// as it is drawn. Each draw perturbs the remaining utilities epsilonEM·count
// with independent Gumbel(1) noise and takes the argmax, which realizes the
// exponential-mechanism weights in log space; the utilities are never
// exponentiated, so an extreme budget or count spread cannot overflow or
// underflow a weight. With epsilonEM = 0 this is uniform sampling without
// replacement. For epsilonEM > 0 the draws follow the mechanism's sampling
// order. The caller guarantees len(counts) > k.
func drawWithoutReplacement(counts []float64, k int, epsilonEM float64, src *rand.Source) []int {
	gen := noise.NewGenerator(src)
	remaining := make([]int, len(counts))
	for j := range remaining {
		remaining[j] = j
	}
	selected := make([]int, 0, k)
	for len(selected) < k {
		best := 0
		bestScore := math.Inf(-1)
		for pos, idx := range remaining {
			if score := epsilonEM*counts[idx] + gen.Gumbel(1); score > bestScore {
				best, bestScore = pos, score
			}
		}
		selected = append(selected, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return selected
}
