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

// maxShrinkSteps caps the δ_q fixed-point search. Each step shrinks δ_q by
// 1%, so the cap corresponds to shrinking by a factor of roughly e^-1000,
// far past the point where any valid parameterization has converged.
const maxShrinkSteps = 100000

// DeltaQ returns a calibrated secondary failure probability δ_q ≤ delta for
// threshold selection with truncation size kbar, such that the induced
// per-candidate failure bound (see InducedDeltaMax) stays within delta. The
// shape constant c is derived from the mechanism's two sub-budgets as
// c = 2·ε₁/ε₂; c = 1 is rejected since the failure bound divides by 4−4c.
//
// The search starts at δ_q = delta and shrinks multiplicatively by 1% until
// the bound holds. It is deterministic: identical inputs yield identical
// results. Returns ErrSearchExhausted if the step limit is hit first.
func DeltaQ(delta float64, kbar int, c float64) (float64, error) {
	if err := checks.CheckDeltaStrict(delta); err != nil {
		return 0, fmt.Errorf("DeltaQ: %w", err)
	}
	if kbar <= 0 {
		return 0, fmt.Errorf("DeltaQ: KBar is %d, must be strictly positive", kbar)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, fmt.Errorf("DeltaQ: shape constant is %f, must be finite", c)
	}
	if c == 1 {
		return 0, fmt.Errorf("DeltaQ: shape constant is 1, which makes the failure bound divide by zero")
	}

	deltaQ := delta
	for step := 0; step < maxShrinkSteps; step++ {
		if InducedDeltaMax(deltaQ, kbar, c) <= delta {
			return deltaQ, nil
		}
		deltaQ *= 0.99
	}
	return 0, fmt.Errorf("DeltaQ: %w", ErrSearchExhausted)
}

// InducedDeltaMax returns the per-candidate failure bound induced by running
// threshold selection with secondary failure probability deltaQ over kbar
// candidates:
//
//	kbar · (2·δ_q^c + δ_q − c·(δ_q^c + 2·δ_q)) / (4 − 4c)
//
// DeltaQ shrinks δ_q until this bound falls within the target delta; it is
// exported so that callers can audit a calibrated δ_q against their target.
func InducedDeltaMax(deltaQ float64, kbar int, c float64) float64 {
	dc := math.Pow(deltaQ, c)
	return float64(kbar) * (2*dc + deltaQ - c*(dc+2*deltaQ)) / (4 - 4*c)
}
