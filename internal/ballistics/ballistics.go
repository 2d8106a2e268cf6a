// Package ballistics provides pure constant-gravity extrapolation helpers
// for the reward detectors: where the ball will be, when it crosses a plane,
// and whether a defender could plausibly reach it in time.
package ballistics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/overdrive-rl/shaping/internal/sim"
)

const (
	// Epsilon is the minimum magnitude treated as non-zero in any ratio or
	// normalization.
	Epsilon = 1e-6

	// DefaultMaxHorizon caps every time-to-reach answer, in seconds.
	// Predictions beyond this are too uncertain to act on.
	DefaultMaxHorizon = 6.0

	// MinInterceptSpeedFraction is the fraction of CarMaxSpeed every
	// defender is credited with even when stationary. Intercept estimates
	// stay conservative: a defender that might move is assumed to move.
	MinInterceptSpeedFraction = 0.5

	// ReactionMargin is added to a defender's travel time, in seconds.
	ReactionMargin = 0.2

	// InterceptBuffer widens the arrival window in the defender's favor,
	// in seconds.
	InterceptBuffer = 0.3
)

// PositionAt returns the position after t seconds under constant downward
// acceleration: pos + vel·t + ½·g·t². Gravity acts on Z only.
func PositionAt(pos, vel r3.Vec, t, gravityZ float64) r3.Vec {
	p := r3.Add(pos, r3.Scale(t, vel))
	p.Z += 0.5 * gravityZ * t * t
	return p
}

// TimeToPlaneY returns the time until the ball crosses the plane y = planeY.
// Y motion is gravity-free, so the answer is linear. The second return is
// false when the ball is not moving toward the plane or would not reach it
// within maxTime (the returned time is then capped at maxTime).
func TimeToPlaneY(pos, vel r3.Vec, planeY, maxTime float64) (float64, bool) {
	dy := planeY - pos.Y
	if math.Abs(dy) < Epsilon {
		return 0, true
	}
	if math.Abs(vel.Y) < Epsilon || dy/vel.Y < 0 {
		return maxTime, false
	}
	t := dy / vel.Y
	if t > maxTime {
		return maxTime, false
	}
	return t, true
}

// TimeToHeight returns the earliest non-negative time at which the ball
// reaches height targetZ under constant gravity, solving
// ½·g·t² + vz·t + (z0 − targetZ) = 0. The second return is false when the
// height is never reached or only beyond maxTime.
func TimeToHeight(pos, vel r3.Vec, targetZ, gravityZ, maxTime float64) (float64, bool) {
	c := pos.Z - targetZ
	if math.Abs(gravityZ) < Epsilon {
		// Degenerate gravity: fall back to the linear case.
		if math.Abs(vel.Z) < Epsilon || -c/vel.Z < 0 {
			return maxTime, false
		}
		t := -c / vel.Z
		if t > maxTime {
			return maxTime, false
		}
		return t, true
	}

	a := 0.5 * gravityZ
	b := vel.Z
	disc := b*b - 4*a*c
	if disc < 0 {
		return maxTime, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	t := t1
	if t < 0 {
		t = t2
	}
	if t < 0 || t > maxTime {
		return maxTime, false
	}
	return t, true
}

// InterceptFeasible reports whether a defender at defPos, currently moving
// at defSpeed, could reach target within eta seconds. The estimate is
// deliberately conservative: the defender is credited with at least
// MinInterceptSpeedFraction of CarMaxSpeed, so a stationary or slow defender
// still vetoes a marginal shot.
func InterceptFeasible(defPos r3.Vec, defSpeed float64, target r3.Vec, eta float64) bool {
	effSpeed := math.Max(defSpeed, MinInterceptSpeedFraction*sim.CarMaxSpeed)
	travel := r3.Norm(r3.Sub(target, defPos)) / effSpeed
	return travel+ReactionMargin < eta+InterceptBuffer
}
