package surveil

// Pose is a sensor or adversary's location and heading in centimetres and
// radians.
type Pose struct {
	X, Y  float64
	Theta float64
}
