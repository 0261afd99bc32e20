package surveil

import "math"

// rayStepCM is the sampling step used when marching a ray across the
// occupancy grid, matching the original source's 1cm-per-sample scan.
const rayStepCM = 1.0

// castRay marches from (ox,oy) toward (tx,ty) in rayStepCM increments and
// reports the point at which a solid cell or the grid boundary is hit,
// together with whether the full segment was clear. Adapted from
// Garsondee-Soldier-Sense's AABB-based HasLineOfSight: that teacher tests a
// continuous line against a handful of rectangles, but spec.md's map is a
// raster occupancy grid, so the corresponding primitive here is a stepped
// march against grid cells instead of a slab test against rectangles.
func castRay(grid *OccupancyGrid, ox, oy, tx, ty float64) (hitX, hitY float64, clear bool) {
	dx, dy := tx-ox, ty-oy
	dist := math.Hypot(dx, dy)
	if dist < 1e-9 {
		return ox, oy, grid.InEnvironment(ox, oy) && !grid.InObject(ox, oy)
	}
	ux, uy := dx/dist, dy/dist

	steps := int(math.Ceil(dist / rayStepCM))
	px, py := ox, oy
	for i := 1; i <= steps; i++ {
		d := math.Min(float64(i)*rayStepCM, dist)
		px, py = ox+ux*d, oy+uy*d
		if !grid.InEnvironment(px, py) {
			return px, py, false
		}
		if grid.InObject(px, py) {
			return px, py, false
		}
	}
	return tx, ty, true
}

// hasLineOfSight reports whether the full straight segment from (ox,oy) to
// (tx,ty) crosses no solid cell and stays inside the grid.
func hasLineOfSight(grid *OccupancyGrid, ox, oy, tx, ty float64) bool {
	_, _, clear := castRay(grid, ox, oy, tx, ty)
	return clear
}

// normalizeAngle wraps an angle to (-pi, pi], matching the teacher's vision
// cone helper.
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// angleTo returns the bearing in radians from (ox,oy) toward (tx,ty), always
// via the two-argument atan2(dy, dx) — spec.md's resolved Open Question
// calling out the original source's buggy single-argument form.
func angleTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

// inViewCone reports whether the point (px,py) lies within fovRad radians
// (total arc) of heading, as seen from (ox,oy), ignoring range and
// occlusion — the pure angular test spec.md's Camera/Robot sensors apply
// before ray casting each individual sample ray.
func inViewCone(ox, oy, heading, fovRad, px, py float64) bool {
	dx, dy := px-ox, py-oy
	if math.Hypot(dx, dy) < 1e-9 {
		return true
	}
	diff := normalizeAngle(angleTo(ox, oy, px, py) - heading)
	half := fovRad / 2
	return diff >= -half && diff <= half
}

// sampleFOVRays returns n ray angles, evenly spaced across fovRad and
// centered on heading, matching spec.md §4.6's num_rays = ceil(fov_deg / 3)
// fan used by the Camera sensor (Robot steps its fan at AngleResolution
// instead, see Robot.rayAngles).
func sampleFOVRays(heading, fovRad float64, n int) []float64 {
	if n <= 1 {
		return []float64{heading}
	}
	angles := make([]float64, n)
	start := heading - fovRad/2
	step := fovRad / float64(n-1)
	for i := 0; i < n; i++ {
		angles[i] = normalizeAngle(start + float64(i)*step)
	}
	return angles
}
