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
	"github.com/google/dp-topk/go/rand"
	"gonum.org/v1/gonum/floats"
)

// KBarDistribution is an exponential-mechanism probability distribution over
// candidate truncation sizes kbar in the half-open range [Min, Max) for
// limited-domain selection. It is built once per configuration and sampled
// once per trial; a built distribution is immutable and safe to share across
// concurrent trials.
type KBarDistribution struct {
	k     int
	probs []float64
	cum   []float64
}

// NewKBarDistribution builds the truncation-size distribution for
// limited-domain selection over counts with selection size k, candidate
// range [k, kbarMax), failure probability deltaLD and per-round budget
// epsilonIteration.
//
// Each candidate kbar is scored by the count at its boundary plus a
// finite-domain correction, counts[kbar−1] + ln(kbar/δ_ld)/ε_it, and scores
// are converted to probabilities with an exponential-mechanism softmax.
// Scores are shifted by 0.95 of their maximum before exponentiating; the
// shift guards against overflow and cancels under normalization, so it does
// not affect the resulting probabilities.
func NewKBarDistribution(counts []float64, k, kbarMax int, deltaLD, epsilonIteration float64) (*KBarDistribution, error) {
	if err := checks.CheckK(k); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}
	if err := checks.CheckKBarRange(k, kbarMax); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}
	if err := checks.CheckDeltaStrict(deltaLD, "DeltaLD"); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}
	if err := checks.CheckEpsilonStrict(epsilonIteration, "EpsilonIteration"); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}
	// The largest candidate kbarMax−1 is scored from counts[kbarMax−2].
	if err := checks.CheckNumCandidates(counts, kbarMax-1); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}
	if err := checks.CheckSortedDescending(counts); err != nil {
		return nil, fmt.Errorf("NewKBarDistribution: %w", err)
	}

	scores := make([]float64, kbarMax-k)
	for j := range scores {
		kbar := k + j
		scores[j] = counts[kbar-1] + math.Log(float64(kbar)/deltaLD)/epsilonIteration
	}
	shift := 0.95 * floats.Max(scores)
	probs := make([]float64, len(scores))
	for j, s := range scores {
		probs[j] = math.Exp(epsilonIteration * (s - shift))
	}
	floats.Scale(1/floats.Sum(probs), probs)

	cum := make([]float64, len(probs))
	floats.CumSum(cum, probs)
	return &KBarDistribution{k: k, probs: probs, cum: cum}, nil
}

// Min returns the smallest candidate truncation size, i.e. k.
func (d *KBarDistribution) Min() int {
	return d.k
}

// Max returns the exclusive upper bound of the candidate range.
func (d *KBarDistribution) Max() int {
	return d.k + len(d.probs)
}

// Probabilities returns a copy of the candidate probabilities, indexed so
// that position j holds the probability of truncation size Min()+j. The
// probabilities are nonnegative and sum to 1 up to floating point error.
func (d *KBarDistribution) Probabilities() []float64 {
	probs := make([]float64, len(d.probs))
	copy(probs, d.probs)
	return probs
}

// Sample draws one truncation size from the distribution using src, or the
// process-wide source if src is nil. Limited-domain selection draws a fresh
// kbar from this distribution for every trial.
func (d *KBarDistribution) Sample(src *rand.Source) int {
	if src == nil {
		src = rand.Default()
	}
	u := src.Uniform()
	for j, c := range d.cum {
		if u <= c {
			return d.k + j
		}
	}
	// Floating point slack in the cumulative sum; u landed past the last
	// accumulated probability.
	return d.k + len(d.cum) - 1
}
