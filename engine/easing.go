package engine

import "math"

// EaseInOutCubic maps [0, 1] onto itself, slow at both ends.
func EaseInOutCubic(x float64) float64 {
	x = clamp01(x)
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// oscillate is a unit sine wave with the given period, evaluated elapsedMs
// into the cycle.
func oscillate(elapsedMs int64, periodMs float64) float64 {
	return math.Sin(2 * math.Pi * float64(elapsedMs) / periodMs)
}
