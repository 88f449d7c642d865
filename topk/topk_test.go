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

import "testing"

// zeroNoise returns 0 for every draw, pinning a mechanism's decisions to the
// unperturbed counts so that tests can follow its control flow exactly.
type zeroNoise struct{}

func (zeroNoise) Laplace(scale float64) float64 { return 0 }
func (zeroNoise) Gumbel(scale float64) float64  { return 0 }

// tenCounts is the running example used across the mechanism tests: ten
// descending counts with a uniform gap of 10.
var tenCounts = []float64{100, 90, 80, 70, 60, 50, 40, 30, 20, 10}

// checkSelection fails the test if the selection is not a set of distinct
// indices in [0, n) of size at most k.
func checkSelection(t *testing.T, selected []int, n, k int) {
	t.Helper()
	if len(selected) > k {
		t.Errorf("selection %v has %d indices, want at most %d", selected, len(selected), k)
	}
	seen := make(map[int]bool)
	for _, idx := range selected {
		if idx < 0 || idx >= n {
			t.Errorf("selection %v contains index %d, want indices in [0,%d)", selected, idx, n)
		}
		if seen[idx] {
			t.Errorf("selection %v contains index %d more than once", selected, idx)
		}
		seen[idx] = true
	}
}
