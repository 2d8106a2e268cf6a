package sim

import "gonum.org/v1/gonum/spatial/r3"

// Arena geometry and kinematic limits, in unreal units (uu) and uu/s.
// The arena is symmetric about the origin: Blue defends the negative-Y
// goal, Orange defends the positive-Y goal.
const (
	// SideWallX is the X coordinate of the side wall planes.
	SideWallX = 4096.0
	// BackWallY is the Y coordinate of the back wall planes.
	BackWallY = 5120.0
	// CeilingZ is the arena ceiling height.
	CeilingZ = 2044.0
	// GoalHeight is the top of the goal opening.
	GoalHeight = 642.775
	// GoalHalfWidth is half the width of the goal opening.
	GoalHalfWidth = 892.755
	// BallRadius is the ball collision radius.
	BallRadius = 92.75
	// GravityZ is the constant downward acceleration applied to the ball.
	GravityZ = -650.0
	// CarMaxSpeed is the top speed of a car (supersonic cap).
	CarMaxSpeed = 2300.0
	// SupersonicSpeed is the speed at which a car is considered supersonic.
	SupersonicSpeed = 2200.0
	// BallMaxSpeed is the top speed of the ball.
	BallMaxSpeed = 6000.0
	// BigPadZ separates big pad locations (z=73) from small ones (z=70).
	BigPadZ = 72.0
)

// Team identifies which goal an agent defends.
type Team int

const (
	Blue   Team = 0
	Orange Team = 1
)

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	if t == Blue {
		return Orange
	}
	return Blue
}

// TeamFromY maps a field-half Y coordinate to the team defending that half.
func TeamFromY(y float64) Team {
	if y < 0 {
		return Blue
	}
	return Orange
}

// GoalCenter returns the center of the goal a team defends, at half the
// goal opening height.
func GoalCenter(t Team) r3.Vec {
	if t == Blue {
		return r3.Vec{X: 0, Y: -BackWallY, Z: GoalHeight / 2}
	}
	return r3.Vec{X: 0, Y: BackWallY, Z: GoalHeight / 2}
}

// AttackedGoalCenter returns the center of the goal a team is shooting at.
func AttackedGoalCenter(t Team) r3.Vec {
	return GoalCenter(t.Opponent())
}

// BoostPadCount is the number of boost pads on a standard field.
const BoostPadCount = 34

// BoostPadLocations lists all pad positions. Pads with Z > BigPadZ are big
// pads (100 boost); the rest are small pads (12 boost). Order matches the
// Snapshot.BoostPads availability slice.
var BoostPadLocations = [BoostPadCount]r3.Vec{
	{X: 0, Y: -4240, Z: 70},
	{X: -1792, Y: -4184, Z: 70},
	{X: 1792, Y: -4184, Z: 70},
	{X: -3072, Y: -4096, Z: 73},
	{X: 3072, Y: -4096, Z: 73},
	{X: -940, Y: -3308, Z: 70},
	{X: 940, Y: -3308, Z: 70},
	{X: 0, Y: -2816, Z: 70},
	{X: -3584, Y: -2484, Z: 70},
	{X: 3584, Y: -2484, Z: 70},
	{X: -1788, Y: -2300, Z: 70},
	{X: 1788, Y: -2300, Z: 70},
	{X: -2048, Y: -1036, Z: 70},
	{X: 0, Y: -1024, Z: 70},
	{X: 2048, Y: -1036, Z: 70},
	{X: -3584, Y: 0, Z: 73},
	{X: -1024, Y: 0, Z: 70},
	{X: 1024, Y: 0, Z: 70},
	{X: 3584, Y: 0, Z: 73},
	{X: -2048, Y: 1036, Z: 70},
	{X: 0, Y: 1024, Z: 70},
	{X: 2048, Y: 1036, Z: 70},
	{X: -1788, Y: 2300, Z: 70},
	{X: 1788, Y: 2300, Z: 70},
	{X: -3584, Y: 2484, Z: 70},
	{X: 3584, Y: 2484, Z: 70},
	{X: 0, Y: 2816, Z: 70},
	{X: -940, Y: 3308, Z: 70},
	{X: 940, Y: 3308, Z: 70},
	{X: -3072, Y: 4096, Z: 73},
	{X: 3072, Y: 4096, Z: 73},
	{X: -1792, Y: 4184, Z: 70},
	{X: 1792, Y: 4184, Z: 70},
	{X: 0, Y: 4240, Z: 70},
}
