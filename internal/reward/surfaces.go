package reward

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

// Surface identifies which boundary a ball bounce came off.
type Surface int

const (
	SurfaceNone Surface = iota
	SurfaceSide
	SurfaceBackBlue   // back wall on the Blue (negative-Y) side
	SurfaceBackOrange // back wall on the Orange (positive-Y) side
	SurfaceCeiling
)

// String returns the surface name for logs and stored summaries.
func (s Surface) String() string {
	switch s {
	case SurfaceSide:
		return "side"
	case SurfaceBackBlue:
		return "back_blue"
	case SurfaceBackOrange:
		return "back_orange"
	case SurfaceCeiling:
		return "ceiling"
	default:
		return "none"
	}
}

const (
	// minBounceDelta filters soft touches from true bounces: the velocity
	// change across the tick must exceed this, uu/s.
	minBounceDelta = 500.0

	// boundaryProximity is how close to a boundary plane the ball must be
	// for a flip of that velocity component to count as a bounce, uu.
	boundaryProximity = 300.0
)

// ClassifyBounce classifies a velocity change as a bounce off exactly one
// boundary, or SurfaceNone. Checks run in a fixed priority order (ceiling,
// back walls, side walls) so corner contacts resolve to a single class.
func ClassifyBounce(pos r3.Vec, prevVel, vel r3.Vec) Surface {
	if speed(r3.Sub(vel, prevVel)) < minBounceDelta {
		return SurfaceNone
	}
	if pos.Z > sim.CeilingZ-boundaryProximity && prevVel.Z > 0 && vel.Z < 0 {
		return SurfaceCeiling
	}
	if pos.Y < -(sim.BackWallY-boundaryProximity) && prevVel.Y < 0 && vel.Y > 0 {
		return SurfaceBackBlue
	}
	if pos.Y > sim.BackWallY-boundaryProximity && prevVel.Y > 0 && vel.Y < 0 {
		return SurfaceBackOrange
	}
	if math.Abs(pos.X) > sim.SideWallX-boundaryProximity &&
		((pos.X > 0 && prevVel.X > 0 && vel.X < 0) || (pos.X < 0 && prevVel.X < 0 && vel.X > 0)) {
		return SurfaceSide
	}
	return SurfaceNone
}

// IntentionalCeiling reports whether a ceiling bounce was a deliberate send:
// the ball was already climbing with more vertical than horizontal speed
// before the contact. Intentional ceiling sends are the behavior being
// discouraged; incidental grazes are not.
func IntentionalCeiling(prevVel r3.Vec) bool {
	horizontal := math.Hypot(prevVel.X, prevVel.Y)
	return prevVel.Z > 0 && prevVel.Z > horizontal
}
