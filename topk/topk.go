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

// Package topk implements two (ε,δ)-differentially private top-k selection
// mechanisms over sorted count vectors, together with the calibration
// routines that derive their internal budget parameters:
//
//   - SelectViaThreshold performs a sparse-vector style search for a large
//     gap between adjacent counts and releases the indices above it.
//   - SelectViaLimitedDomain perturbs a truncated prefix of the counts with
//     Gumbel noise and releases the indices whose noisy counts clear a
//     noisy bottom threshold.
//   - PerRoundEpsilon, DeltaQ and NewKBarDistribution calibrate the
//     mechanisms' internal parameters from a target (ε,δ) guarantee.
//
// Both mechanisms follow Durfee and Rogers, "Practical Differentially
// Private Top-k Selection with Pay-what-you-get Composition" (NeurIPS
// 2019), https://arxiv.org/abs/1905.04273.
//
// All inputs must be sorted in descending order; every entry point
// validates this and fails fast on unsorted data. Count vectors are read
// but never modified, so one vector can back any number of concurrent
// trials. A selection that comes back empty or shorter than k is a valid
// mechanism outcome, not an error: it means the mechanism could not
// confidently locate k indices under the requested budget.
package topk

import "errors"

var (
	// ErrBudgetInfeasible indicates that the composition bound already
	// exceeds the total privacy budget at the starting point of the
	// per-round budget search, so no per-round budget can be calibrated.
	ErrBudgetInfeasible = errors.New("composition bound exceeds the total privacy budget at the starting point")

	// ErrSearchExhausted indicates that an iterative calibration search hit
	// its step limit before converging.
	ErrSearchExhausted = errors.New("calibration search hit its step limit before converging")
)
