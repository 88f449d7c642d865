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

package checks

import (
	"math"
	"testing"
)

func TestCheckEpsilonStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"negative epsilon",
			-2,
			true},
		{"zero epsilon",
			0,
			true},
		{"epsilon is NaN",
			math.NaN(),
			true},
		{"epsilon is negative infinity",
			math.Inf(-1),
			true},
		{"epsilon is positive infinity",
			math.Inf(1),
			true},
		{"positive epsilon",
			50,
			false},
		{"small positive epsilon",
			1e-10,
			false},
	} {
		if err := CheckEpsilonStrict(tc.epsilon); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilonStrict: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckEpsilon(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		epsilon float64
		wantErr bool
	}{
		{"negative epsilon",
			-2,
			true},
		{"zero epsilon",
			0,
			false},
		{"epsilon is NaN",
			math.NaN(),
			true},
		{"epsilon is positive infinity",
			math.Inf(1),
			true},
		{"positive epsilon",
			0.5,
			false},
	} {
		if err := CheckEpsilon(tc.epsilon); (err != nil) != tc.wantErr {
			t.Errorf("CheckEpsilon: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckDeltaStrict(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		delta   float64
		wantErr bool
	}{
		{"delta is NaN",
			math.NaN(),
			true},
		{"negative delta",
			-1e-10,
			true},
		{"zero delta",
			0,
			true},
		{"delta is one",
			1,
			true},
		{"delta is larger than one",
			54.65,
			true},
		{"delta between 0 and 1",
			0.3,
			false},
		{"small positive delta",
			1e-10,
			false},
	} {
		if err := CheckDeltaStrict(tc.delta); (err != nil) != tc.wantErr {
			t.Errorf("CheckDeltaStrict: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckPrecision(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		precision float64
		wantErr   bool
	}{
		{"negative precision", -0.0001, true},
		{"zero precision", 0, true},
		{"precision is NaN", math.NaN(), true},
		{"precision is infinity", math.Inf(1), true},
		{"positive precision", 0.0001, false},
	} {
		if err := CheckPrecision(tc.precision); (err != nil) != tc.wantErr {
			t.Errorf("CheckPrecision: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckK(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		k       int
		wantErr bool
	}{
		{"negative k", -3, true},
		{"zero k", 0, true},
		{"positive k", 3, false},
	} {
		if err := CheckK(tc.k); (err != nil) != tc.wantErr {
			t.Errorf("CheckK: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckKBar(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		kbar, k int
		wantErr bool
	}{
		{"kbar below k", 2, 3, true},
		{"kbar equals k", 3, 3, false},
		{"kbar above k", 5, 3, false},
	} {
		if err := CheckKBar(tc.kbar, tc.k); (err != nil) != tc.wantErr {
			t.Errorf("CheckKBar: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckKBarRange(t *testing.T) {
	for _, tc := range []struct {
		desc       string
		k, kbarMax int
		wantErr    bool
	}{
		{"kbarMax below k", 3, 2, true},
		{"kbarMax equals k", 3, 3, true},
		{"kbarMax above k", 3, 15, false},
	} {
		if err := CheckKBarRange(tc.k, tc.kbarMax); (err != nil) != tc.wantErr {
			t.Errorf("CheckKBarRange: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckNumCandidates(t *testing.T) {
	counts := []float64{5, 4, 3}
	for _, tc := range []struct {
		desc        string
		numRequired int
		wantErr     bool
	}{
		{"fewer elements than required", 4, true},
		{"exactly as many elements as required", 3, false},
		{"more elements than required", 2, false},
	} {
		if err := CheckNumCandidates(counts, tc.numRequired); (err != nil) != tc.wantErr {
			t.Errorf("CheckNumCandidates: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}

func TestCheckSortedDescending(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		counts  []float64
		wantErr bool
	}{
		{"empty counts",
			nil,
			false},
		{"single count",
			[]float64{7},
			false},
		{"strictly descending counts",
			[]float64{100, 90, 80},
			false},
		{"weakly descending counts",
			[]float64{100, 90, 90, 80},
			false},
		{"ascending pair",
			[]float64{100, 90, 95, 80},
			true},
		{"negative count",
			[]float64{100, 90, -1},
			true},
		{"NaN count",
			[]float64{100, math.NaN(), 80},
			true},
		{"infinite count",
			[]float64{math.Inf(1), 90, 80},
			true},
	} {
		if err := CheckSortedDescending(tc.counts); (err != nil) != tc.wantErr {
			t.Errorf("CheckSortedDescending: when %s for err got %v, want %t", tc.desc, err, tc.wantErr)
		}
	}
}
