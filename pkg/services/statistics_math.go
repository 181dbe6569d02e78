package services

import "math"

// mean returns the arithmetic mean, or nil for an empty series.
func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	return &m
}

// populationStdDev returns the population standard deviation, or nil when
// fewer than 2 points make the spread undefined.
func populationStdDev(xs []float64) *float64 {
	if len(xs) < 2 {
		return nil
	}
	m := *mean(xs)
	var variance float64
	for _, x := range xs {
		diff := x - m
		variance += diff * diff
	}
	sd := math.Sqrt(variance / float64(len(xs)))
	return &sd
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. It returns nil with fewer than 4 paired points or when either
// series has zero variance; callers must treat nil as "insufficient signal",
// never as zero correlation.
func pearson(x, y []float64) *float64 {
	if len(x) != len(y) || len(x) < 4 {
		return nil
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < len(x); i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return nil
	}

	r := numerator / denominator
	return &r
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// roundPtr rounds through a nil-able value.
func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	r := roundTo(*v, places)
	return &r
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
