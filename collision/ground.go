package collision

import (
	"github.com/golang/geo/r3"

	"go.viam.com/boxcollider/spatialmath"
)

// GroundContact is what a GroundProbe found beneath an agent.
type GroundContact struct {
	OnGround bool
	// StepOffset is how far the agent should rise (positive) or sink (negative) to stand
	// stepHeight above the ground. It is zero when not on ground.
	StepOffset float64
	Normal     r3.Vector
}

// GroundProbe decides whether an agent is standing on something after it moved.
type GroundProbe interface {
	Probe(world *Mesh, box spatialmath.AABB, position r3.Vector, stepHeight float64) GroundContact
}

// SlopeGroundProbe sweeps the agent box down by twice the step height and accepts surfaces whose
// normal has a Y component above MinNormalY.
type SlopeGroundProbe struct {
	MinNormalY float64
}

// NewSlopeGroundProbe returns a probe that treats slopes up to 45 degrees as ground.
func NewSlopeGroundProbe() SlopeGroundProbe {
	return SlopeGroundProbe{MinNormalY: spatialmath.Cos45}
}

// Probe implements GroundProbe.
func (p SlopeGroundProbe) Probe(world *Mesh, box spatialmath.AABB, position r3.Vector, stepHeight float64) GroundContact {
	below := position.Add(r3.Vector{Y: -2 * stepHeight})
	hit, ok := world.BoxIntersect(box, position, below)
	if !ok || hit.Normal.Y <= p.MinNormalY {
		return GroundContact{}
	}
	return GroundContact{
		OnGround:   true,
		StepOffset: stepHeight - hit.Distance,
		Normal:     hit.Normal,
	}
}
