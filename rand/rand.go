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

// Package rand provides random sources for the top-k selection mechanisms.
//
// Randomness is always drawn from an explicit *Source rather than ambient
// global state: trials of a selection experiment are independent, so each
// trial can hold its own deterministically seeded Source and be replayed or
// run in parallel without synchronizing on a shared generator. A Source is
// safe for concurrent use, but sharing one across trials serializes them on
// its internal lock.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	mathrand "math/rand"
	"sync"

	log "github.com/golang/glog"
)

// Source produces the uniform random bits consumed by the noise generators
// and samplers. It implements golang.org/x/exp/rand.Source, so it can back
// gonum's sampling utilities directly.
type Source struct {
	mu   sync.Mutex
	next func() uint64
	seed func(uint64)

	bitBuf uint64
	bitPos int
}

// NewSource returns a deterministically seeded Source. Two Sources created
// with the same seed produce identical streams, which makes selection trials
// reproducible.
func NewSource(seed uint64) *Source {
	r := mathrand.New(mathrand.NewSource(int64(seed)))
	return &Source{
		next: r.Uint64,
		seed: func(s uint64) { r.Seed(int64(s)) },
	}
}

// CryptoSource returns a Source backed by a buffered stream of
// cryptographically secure random bytes. Its Seed method is a no-op.
func CryptoSource() *Source {
	buf := bufio.NewReaderSize(cryptorand.Reader, 65536)
	return &Source{
		next: func() uint64 {
			var r [8]uint8
			if _, err := io.ReadFull(buf, r[:]); err != nil {
				log.Fatalf("out of randomness, should never happen: %v", err)
			}
			return binary.LittleEndian.Uint64(r[:])
		},
		seed: func(uint64) {},
	}
}

var (
	defaultOnce   sync.Once
	defaultSource *Source
)

// Default returns a process-wide crypto-backed Source. It is the fallback
// used by the selection mechanisms when no Source is supplied.
func Default() *Source {
	defaultOnce.Do(func() { defaultSource = CryptoSource() })
	return defaultSource
}

// Uint64 returns a uniformly random uint64.
func (s *Source) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next()
}

// Seed reseeds a deterministic Source; it is a no-op on a crypto-backed one.
// Present to satisfy golang.org/x/exp/rand.Source.
func (s *Source) Seed(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(seed)
	s.bitPos = 0
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func (s *Source) Sign() float64 {
	if s.Boolean() {
		return 1.0
	}
	return -1.0
}

// Boolean returns true or false with equal probability.
func (s *Source) Boolean() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bitPos == 0 { // Out of random bits.
		s.bitBuf = s.next()
		s.bitPos = 64
	}
	res := s.bitBuf&1 > 0
	s.bitBuf >>= 1
	s.bitPos--
	return res
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func (s *Source) I63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	largestMultipleOfN := (math.MaxInt64 / n) * n
	var positiveRandomInteger int64
	for {
		// Draw a random 64 bit sequence and clear the sign bit.
		positiveRandomInteger = int64(s.next()) & 0x7fffffffffffffff
		if positiveRandomInteger < largestMultipleOfN {
			break
		}
	}
	return positiveRandomInteger % n
}

// Uniform returns a float64 from the interval (0,1] such that each float
// in the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
func (s *Source) Uniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.next() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Pow(2, s.geometric())
	// We want to avoid returning 0, since we're taking the log of the output.
	if r == 0 {
		return 1
	}
	return r
}

// Geometric returns a float64 that counts the number of Bernoulli trials
// until the first success for a success probability of 0.5.
func (s *Source) Geometric() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometric()
}

func (s *Source) geometric() float64 {
	// 1 plus the number of leading zeros from an infinite stream of random
	// bits follows the desired geometric distribution.
	b := 1
	var r uint64
	for r == 0 {
		r = s.next()
		b += bits.LeadingZeros64(r)
	}
	return float64(b)
}
