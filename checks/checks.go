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

// Package checks contains precondition checks for differentially private
// top-k selection.
package checks

import (
	"fmt"
	"math"
)

const (
	epsilonName = "Epsilon"
	deltaName   = "Delta"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("This should never happen. There should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive or +∞.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%s is %f, must be strictly positive and finite", epsName, epsilon)
	}
	return nil
}

// CheckEpsilon returns an error if ε is strictly negative or +∞. A zero ε is
// allowed; the exponential mechanism degenerates to uniform sampling at ε = 0.
func CheckEpsilon(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon < 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%s is %f, must be nonnegative and finite", epsName, epsilon)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or
// equal to 1.
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return fmt.Errorf("%s is %e, cannot be NaN", delName, delta)
	}
	if delta <= 0 {
		return fmt.Errorf("%s is %e, must be strictly positive", delName, delta)
	}
	if delta >= 1 {
		return fmt.Errorf("%s is %e, must be strictly less than 1", delName, delta)
	}
	return nil
}

// CheckPrecision returns an error if the search step of an iterative
// calibration is nonpositive or not finite.
func CheckPrecision(precision float64) error {
	if precision <= 0 || math.IsInf(precision, 0) || math.IsNaN(precision) {
		return fmt.Errorf("Precision is %e, must be strictly positive and finite", precision)
	}
	return nil
}

// CheckK returns an error if the selection size k is nonpositive.
func CheckK(k int) error {
	if k <= 0 {
		return fmt.Errorf("K is %d, must be strictly positive", k)
	}
	return nil
}

// CheckKBar returns an error if the truncation size kbar is smaller than the
// selection size k.
func CheckKBar(kbar, k int) error {
	if kbar < k {
		return fmt.Errorf("KBar is %d, must be at least K (%d)", kbar, k)
	}
	return nil
}

// CheckKBarRange returns an error if the candidate range [k, kbarMax) of
// truncation sizes is empty.
func CheckKBarRange(k, kbarMax int) error {
	if kbarMax <= k {
		return fmt.Errorf("KBarMax is %d, must be strictly larger than K (%d) to yield a nonempty candidate range", kbarMax, k)
	}
	return nil
}

// CheckNumCandidates returns an error if the counts vector holds fewer than
// numRequired elements. Selectors read one or two positions past their
// truncation bound, so the bound alone does not determine the length needed.
func CheckNumCandidates(counts []float64, numRequired int) error {
	if len(counts) < numRequired {
		return fmt.Errorf("Counts has %d elements, must have at least %d", len(counts), numRequired)
	}
	return nil
}

// CheckSortedDescending returns an error if the counts vector is not sorted in
// descending order or contains a negative or non-finite count. Both selection
// mechanisms scan gaps between adjacent counts and silently mis-select on
// unsorted input, so order violations fail fast here.
func CheckSortedDescending(counts []float64) error {
	for i, c := range counts {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("Counts[%d] is %f, must be finite", i, c)
		}
		if c < 0 {
			return fmt.Errorf("Counts[%d] is %f, must be nonnegative", i, c)
		}
		if i > 0 && counts[i-1] < c {
			return fmt.Errorf("Counts must be sorted in descending order, but Counts[%d] (%f) < Counts[%d] (%f)", i-1, counts[i-1], i, c)
		}
	}
	return nil
}
