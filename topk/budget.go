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
)

// maxBudgetSteps caps the per-round budget search. The basic composition term
// grows linearly in the candidate budget, so the search ends long before the
// cap for any sane precision; the cap turns a degenerate parameterization
// into an error instead of a near-endless loop.
const maxBudgetSteps = 10000000

// PerRoundEpsilon returns the largest per-round privacy budget ε, in steps of
// precision above epsilonTotal/rounds, such that the composition of rounds
// adaptive ε-DP invocations stays within epsilonTotal. The composition cost
// is the minimum of basic composition and two advanced composition variants
// with secondary failure probability deltaPrime; whichever bound is tightest
// for the given parameters is the one that binds.
//
// The returned budget is one precision step below the first violation of the
// total. Returns ErrBudgetInfeasible if the bound exceeds epsilonTotal
// already at the starting point and ErrSearchExhausted if the search hits
// its step limit.
func PerRoundEpsilon(epsilonTotal, deltaPrime float64, rounds int, precision float64) (float64, error) {
	if err := checks.CheckEpsilonStrict(epsilonTotal, "EpsilonTotal"); err != nil {
		return 0, fmt.Errorf("PerRoundEpsilon: %w", err)
	}
	if err := checks.CheckDeltaStrict(deltaPrime, "DeltaPrime"); err != nil {
		return 0, fmt.Errorf("PerRoundEpsilon: %w", err)
	}
	if rounds <= 0 {
		return 0, fmt.Errorf("PerRoundEpsilon: Rounds is %d, must be strictly positive", rounds)
	}
	if err := checks.CheckPrecision(precision); err != nil {
		return 0, fmt.Errorf("PerRoundEpsilon: %w", err)
	}

	epsilon := epsilonTotal / float64(rounds)
	if compositionBound(epsilon, deltaPrime, rounds) > epsilonTotal {
		return 0, fmt.Errorf("PerRoundEpsilon: %w", ErrBudgetInfeasible)
	}
	for step := 0; step < maxBudgetSteps; step++ {
		next := epsilon + precision
		if compositionBound(next, deltaPrime, rounds) > epsilonTotal {
			return epsilon, nil
		}
		epsilon = next
	}
	return 0, fmt.Errorf("PerRoundEpsilon: %w", ErrSearchExhausted)
}

// compositionBound returns the cheapest of three composition bounds on the
// total privacy loss of rounds adaptive ε-DP invocations:
//
//	t1 = rounds·ε                                       (basic composition)
//	t2 = rounds·ε·(e^ε−1)/(e^ε+1) + ε·√(2·rounds·ln(1/δ'))
//	t3 = rounds·ε²/2 + ε·√(0.5·rounds·ln(1/δ'))
//
// t2 and t3 are the advanced composition variants from Durfee and Rogers;
// they trade a deltaPrime failure probability for sublinear growth in rounds.
func compositionBound(epsilon, deltaPrime float64, rounds int) float64 {
	r := float64(rounds)
	logTerm := math.Log(1 / deltaPrime)
	t1 := r * epsilon
	t2 := r*epsilon*((math.Exp(epsilon)-1)/(math.Exp(epsilon)+1)) + epsilon*math.Sqrt(2*r*logTerm)
	t3 := r*epsilon*epsilon/2 + epsilon*math.Sqrt(0.5*r*logTerm)
	return math.Min(t1, math.Min(t2, t3))
}
