package core

import (
	"math/rand"
	"sync"
)

// Sampler provides uniform random values in [0, 1) for rendering algorithms.
// Can be swapped out for deterministic testing or different sampling patterns.
// Implementations are not required to be safe for concurrent use; give each
// worker its own instance or wrap a shared one with NewLockedSampler.
type Sampler interface {
	Get1D() float64
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// ConstantSampler returns the same value for every draw. With Value 0.5 the
// stratified estimator places every sample at the centre of its cell.
type ConstantSampler struct {
	Value float64
}

// Get1D returns the constant value
func (c ConstantSampler) Get1D() float64 {
	return c.Value
}

// Get3D returns the constant value in every component
func (c ConstantSampler) Get3D() Vec3 {
	return NewVec3(c.Value, c.Value, c.Value)
}

// LockedSampler serializes access to a sampler shared between goroutines
type LockedSampler struct {
	mu      sync.Mutex
	sampler Sampler
}

// NewLockedSampler wraps sampler with a mutex
func NewLockedSampler(sampler Sampler) *LockedSampler {
	return &LockedSampler{sampler: sampler}
}

// Get1D returns a random float64 in [0, 1)
func (l *LockedSampler) Get1D() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sampler.Get1D()
}

// Get3D returns three random float64 values in [0, 1)
func (l *LockedSampler) Get3D() Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sampler.Get3D()
}

// maxRejectionAttempts bounds the rejection loop so that a degenerate sampler
// (e.g. a constant near 1) cannot spin forever. A uniform sampler exhausts it
// with probability (1-π/6)^1000.
const maxRejectionAttempts = 1000

// SamplePointInUnitSphere draws a point uniformly inside the unit sphere by
// rejection: each candidate maps three uniform values to [-1,1)³ and is
// accepted when its squared length is below 1. Returns the origin if no
// candidate is accepted within maxRejectionAttempts.
func SamplePointInUnitSphere(sampler Sampler) Vec3 {
	for range maxRejectionAttempts {
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}
