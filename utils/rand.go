// Copyright (c) 2017 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// RandomPool hands out pseudo-random numbers from a pool of independently
// seeded generators. A generator is used by one goroutine at a time, so
// concurrent callers draw from distinct sequences without locking.
type RandomPool struct {
	pool      sync.Pool
	instances atomic.Int64
	timeNow   func() time.Time
}

// NewRandomPool creates a RandomPool seeded from the wall clock.
func NewRandomPool() *RandomPool {
	return newRandomPool(time.Now)
}

func newRandomPool(timeNow func() time.Time) *RandomPool {
	p := &RandomPool{timeNow: timeNow}
	p.pool.New = func() interface{} {
		return rand.New(rand.NewSource(p.nextSeed()))
	}
	return p
}

// nextSeed mixes the wall clock with the generator's ordinal, so that
// generators created within the same clock tick still diverge.
func (p *RandomPool) nextSeed() int64 {
	ordinal := p.instances.Inc()
	return p.timeNow().UnixNano() ^ (ordinal * 0x5DEECE66D) ^ (ordinal << 40)
}

// Uint64 returns a pseudo-random 64-bit value.
func (p *RandomPool) Uint64() uint64 {
	r := p.pool.Get().(*rand.Rand)
	v := r.Uint64()
	p.pool.Put(r)
	return v
}

// Instances returns how many generators the pool has created.
func (p *RandomPool) Instances() int64 {
	return p.instances.Load()
}
