package reward

// DefaultEntries returns the standard shaping configuration: every detector
// with its tuned weight. Callers may adjust weights (internal/config) before
// handing the list to NewEngine.
func DefaultEntries() []Entry {
	return []Entry{
		// Movement
		{Name: "air", Detector: NewAir(), Weight: 0.25},
		{Name: "kickoff_speed_flip", Detector: NewKickoffSpeedFlip(), Weight: 30},
		{Name: "kickoff_first_touch", Detector: NewKickoffFirstTouch(), Weight: 1},

		// Player-ball
		{Name: "face_ball", Detector: NewFaceBall(), Weight: 0.25},
		{Name: "velocity_to_ball", Detector: NewVelocityToBall(), Weight: 4},
		{Name: "strong_touch", Detector: NewStrongTouch(), Weight: 30},
		{Name: "touch_accel", Detector: NewTouchAccel(), Weight: 30},

		// Boost economy
		{Name: "pickup_boost", Detector: NewPickupBoost(), Weight: 12},
		{Name: "big_boost", Detector: NewBigBoost(), Weight: 35},
		{Name: "boost_pad_proximity", Detector: NewBoostPadProximity(), Weight: 18},
		{Name: "boost_efficiency", Detector: NewBoostEfficiency(), Weight: 12},
		{Name: "save_boost", Detector: NewSaveBoost(), Weight: 0.2},

		// Adversarial events, mirrored across teams
		{Name: "bump", Detector: NewBump(), Weight: 12, ZeroSum: &ZeroSumSpec{TeamSpirit: 0.5, OppScale: 1}},
		{Name: "demo", Detector: NewDemo(), Weight: 40, ZeroSum: &ZeroSumSpec{TeamSpirit: 0.5, OppScale: 1}},

		// Scoring
		{Name: "shot", Detector: NewShot(), Weight: 70},
		{Name: "goal", Detector: NewGoal(), Weight: 350},
		{Name: "own_goal", Detector: NewOwnGoal(), Weight: 50},
		{Name: "guaranteed_outcome", Detector: NewGuaranteedOutcome(), Weight: 60},
		{Name: "giving_ball_away", Detector: NewGivingBallAway(), Weight: 30},

		// Double touch
		{Name: "double_touch", Detector: NewDoubleTouch(), Weight: 40},
		{Name: "double_touch_helper", Detector: NewDoubleTouchHelper(), Weight: 20},
		{Name: "double_touch_trajectory", Detector: NewDoubleTouchTrajectory(), Weight: 12},

		// Air dribble
		{Name: "air_dribble", Detector: NewAirDribble(), Weight: 80},
		{Name: "aerial_control", Detector: NewAerialControl(), Weight: 20},
		{Name: "air_dribble_boost", Detector: NewAirDribbleBoost(), Weight: 60},
		{Name: "air_dribble_setup", Detector: NewAirDribbleSetup(), Weight: 35},
		{Name: "air_dribble_start", Detector: NewAirDribbleStart(), Weight: 40},
		{Name: "air_dribble_distance", Detector: NewAirDribbleDistance(), Weight: 100},

		// Basic mechanics
		{Name: "powerslide", Detector: NewPowerslide(), Weight: 8},
		{Name: "half_flip", Detector: NewHalfFlip(), Weight: 10},
		{Name: "wavedash", Detector: NewWavedash(), Weight: 15},
		{Name: "directional_flip", Detector: NewDirectionalFlip(), Weight: 8},
		{Name: "fast_aerial", Detector: NewFastAerial(), Weight: 15},
		{Name: "recovery_landing", Detector: NewRecoveryLanding(), Weight: 10},
		{Name: "land_on_boost", Detector: NewLandOnBoost(), Weight: 12},
	}
}
