package core

import (
	"sync"
	"testing"
)

// sequenceSampler replays a fixed list of values, cycling at the end
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get3D() Vec3 {
	return NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

func TestSamplePointInUnitSphere_InsideSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 10000; i++ {
		p := SamplePointInUnitSphere(sampler)
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Sample %d outside unit sphere: %v", i, p)
		}
	}
}

func TestSamplePointInUnitSphere_RejectsOutsideCandidates(t *testing.T) {
	// First candidate maps to (0.8, 0.8, 0.8) with squared length 1.92 and is rejected;
	// the second maps to (0, 0, 0.5).
	sampler := &sequenceSampler{values: []float64{0.9, 0.9, 0.9, 0.5, 0.5, 0.75}}

	p := SamplePointInUnitSphere(sampler)
	if p != NewVec3(0, 0, 0.5) {
		t.Errorf("Expected second candidate (0, 0, 0.5), got %v", p)
	}
	if sampler.next != 6 {
		t.Errorf("Expected 6 draws, got %d", sampler.next)
	}
}

func TestSamplePointInUnitSphere_DegenerateSamplerTerminates(t *testing.T) {
	p := SamplePointInUnitSphere(ConstantSampler{Value: 0.999})
	if !p.IsZero() {
		t.Errorf("Expected origin fallback, got %v", p)
	}
}

func TestSamplePointInUnitSphere_Mean(t *testing.T) {
	sampler := NewSeededSampler(7)
	const n = 50000

	var sum Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(SamplePointInUnitSphere(sampler))
	}
	mean := sum.Multiply(1.0 / n)

	if mean.Length() > 0.02 {
		t.Errorf("Uniform sphere samples should average near the origin, got %v", mean)
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(123)
	b := NewSeededSampler(123)

	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same sequence")
		}
	}
}

func TestLockedSampler_ConcurrentUse(t *testing.T) {
	sampler := NewLockedSampler(NewSeededSampler(1))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				v := sampler.Get1D()
				if v < 0 || v >= 1 {
					t.Errorf("Value out of range: %f", v)
					return
				}
				sampler.Get3D()
			}
		}()
	}
	wg.Wait()
}
