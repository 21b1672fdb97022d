package engine

import (
	"sync"
	"time"
)

// RNG is a seedable pseudo-random number generator using PCG-XSH-RR.
// It is safe for concurrent use.
type RNG struct {
	mu    sync.Mutex
	state uint64
	inc   uint64
}

// NewRNG creates a new PRNG with the given seed. If seed is 0, uses current time.
func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &RNG{}
	// PCG requires odd increment
	r.inc = uint64(seed)<<1 | 1
	r.state = 0
	r.step()
	r.state += uint64(seed)
	r.step()
	return r
}

func (r *RNG) step() {
	r.state = r.state*6364136223846793005 + r.inc
}

// Uint32 returns a uniformly distributed uint32.
func (r *RNG) Uint32() uint32 {
	r.mu.Lock()
	old := r.state
	r.step()
	r.mu.Unlock()

	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Float64 returns a uniformly distributed float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// ApproxNormal returns a pseudo-normal daily shock: the sum of twelve
// independent uniform draws on [-0.5, 0.5], doubled. This is the sampling
// scheme the market model is calibrated against; it is lighter-tailed than
// a true normal and bounded to [-12, 12].
func (r *RNG) ApproxNormal() float64 {
	sum := 0.0
	for i := 0; i < 12; i++ {
		sum += r.Float64() - 0.5
	}
	return sum * 2
}

// State returns the internal PRNG state for later restoration.
func (r *RNG) State() (state, inc uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.inc
}

// RestoreState sets the internal PRNG state from saved values.
func (r *RNG) RestoreState(state, inc uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.inc = inc
}
