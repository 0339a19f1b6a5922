// Package predict forward-simulates the bicycle model (front and rear
// steering) through the actuator dead time to obtain the carrot points
// used by the error calculators.
package predict

import "math"

// Config bundles the bicycle-model parameters needed for prediction.
type Config struct {
	Wheelbase float64 // L, meters
	DeadTime  float64 // seconds
}

// Command is the latched actuator setpoint the prediction is seeded from.
type Command struct {
	V          float64
	SteerFront float64
	SteerBack  float64
}

// Point is a 2D point in the robot-local frame at tick start.
type Point struct {
	X, Y float64
}

// Carrot holds the predicted front and rear reference points.
type Carrot struct {
	Front Point
	Rear  Point
}

// Predict runs the bicycle-model forward simulation described in spec
// §4.D. vFiltered is the low-pass-filtered longitudinal speed (see
// follower.Driver's v_filtered); it is not necessarily equal to cmd.V.
func Predict(cmd Command, cfg Config, vFiltered float64) Carrot {
	beta := math.Atan(0.5 * (math.Tan(cmd.SteerFront) + math.Tan(cmd.SteerBack)))
	vHat := 2 * vFiltered
	ds := vHat * cfg.DeadTime

	dtheta := ds * math.Cos(beta) * (math.Tan(cmd.SteerFront) - math.Tan(cmd.SteerBack)) / cfg.Wheelbase
	thetaN := dtheta
	yn := ds * math.Sin(0.5*dtheta+0.5*beta)
	xn := ds * math.Cos(0.5*dtheta+0.5*beta)

	half := cfg.Wheelbase / 2
	front := Point{
		X: xn + half*math.Cos(thetaN),
		Y: yn + half*math.Sin(thetaN),
	}
	rear := Point{
		X: xn - half*math.Cos(thetaN),
		Y: yn - half*math.Sin(thetaN),
	}

	return Carrot{Front: front, Rear: rear}
}

// Pick selects the front carrot point when dirSign >= 0, else the rear.
func (c Carrot) Pick(dirSign float64) Point {
	if dirSign >= 0 {
		return c.Front
	}
	return c.Rear
}
