// ABOUTME: Small numeric helpers shared by the analyzers.
// ABOUTME: Every helper returns a defined value for empty or degenerate input, never NaN.
package analysis

import "math"

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance returns the population variance, or 0 for an empty slice.
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	avg := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - avg
		sum += d * d
	}
	return sum / float64(len(xs))
}

// correlation returns the Pearson correlation of the paired prefix of x and y.
// A zero denominator (constant input) yields 0.
func correlation(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n == 0 {
		return 0
	}
	mx, my := mean(x[:n]), mean(y[:n])

	var num, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		num += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}

	den := math.Sqrt(sxx * syy)
	if den == 0 {
		return 0
	}
	return num / den
}

// linearRegression fits y = slope*x + intercept by least squares.
// Degenerate input (fewer than two points or constant x) yields a flat line at mean(y).
func linearRegression(x, y []float64) (slope, intercept float64) {
	n := float64(min(len(x), len(y)))
	if n < 2 {
		return 0, mean(y)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < int(n); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// confidence caps a raw confidence at 95.
func confidence(raw float64) float64 {
	return clamp(raw, 0, maxConfidence)
}

const maxConfidence = 95
