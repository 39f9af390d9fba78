package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

func TestDisc_Hit(t *testing.T) {
	// Disc at origin facing up with radius 1
	disc, err := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 3, 0), 1.0)
	if err != nil {
		t.Fatalf("NewDisc() error: %v", err)
	}

	tests := []struct {
		name           string
		ray            core.Ray
		shouldHit      bool
		expectedNormal core.Vec3
	}{
		{"center from above", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), true, core.NewVec3(0, 1, 0)},
		{"edge", core.NewRay(core.NewVec3(1, 1, 0), core.NewVec3(0, -1, 0)), true, core.NewVec3(0, 1, 0)},
		{"from below", core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), true, core.NewVec3(0, -1, 0)},
		{"outside radius", core.NewRay(core.NewVec3(1.1, 1, 0), core.NewVec3(0, -1, 0)), false, core.Vec3{}},
		{"parallel", core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(1, 0, 0)), false, core.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := disc.Hit(tt.ray, 0.001, 10.0)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.T-1.0) > 1e-9 {
				t.Errorf("Expected t=1, got %f", hit.T)
			}
			if hit.Normal != tt.expectedNormal {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestNewDisc_Invalid(t *testing.T) {
	if _, err := NewDisc(core.Vec3{}, core.Vec3{}, 1); !errors.Is(err, core.ErrDegenerateVector) {
		t.Errorf("Expected ErrDegenerateVector for zero normal, got %v", err)
	}
	if _, err := NewDisc(core.Vec3{}, core.NewVec3(0, 1, 0), -1); err == nil {
		t.Error("Expected error for negative radius")
	}
}
