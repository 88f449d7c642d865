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

// Package noise generates the calibrated random variates consumed by the
// top-k selection mechanisms.
package noise

import (
	"math"

	"github.com/google/dp-topk/go/rand"
)

// Generator draws Laplace and Gumbel variates at an explicit scale. The
// scale must be strictly positive; deriving it from a privacy budget is the
// caller's responsibility.
//
// Generator is an interface so that tests can substitute a deterministic
// implementation and exercise a mechanism's decision logic without noise.
type Generator interface {
	// Laplace returns a draw from the Laplace distribution with mean 0 and
	// the given scale.
	Laplace(scale float64) float64

	// Gumbel returns a draw from the Gumbel distribution with location 0 and
	// the given scale.
	Gumbel(scale float64) float64
}

// NewGenerator returns a Generator drawing its randomness from src.
func NewGenerator(src *rand.Source) Generator {
	return generator{src: src}
}

type generator struct {
	src *rand.Source
}

// Laplace samples via inversion: a Laplace variate is an exponential variate
// with a uniformly random sign.
func (g generator) Laplace(scale float64) float64 {
	e := -math.Log(g.src.Uniform())
	return g.src.Sign() * scale * e
}

// Gumbel samples via inversion of the Gumbel CDF exp(-exp(-x/scale)).
func (g generator) Gumbel(scale float64) float64 {
	for {
		u := g.src.Uniform()
		// Uniform draws from (0,1]; u = 1 maps to +∞ under the inverse CDF,
		// so it is rejected.
		if u < 1 {
			return -scale * math.Log(-math.Log(u))
		}
	}
}
