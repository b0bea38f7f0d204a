package simulator

import (
	"math"
	"math/rand"
	"time"
)

func isPeakHour(t time.Time) bool {
	hour := t.Hour()
	return (hour >= 11 && hour <= 14) || (hour >= 18 && hour <= 21)
}

// nextArrival draws the gap to the next order. Arrivals are exponential with
// a mean of meanGap, halved during lunch and dinner peaks.
func nextArrival(rng *rand.Rand, now time.Time, meanGap time.Duration) time.Duration {
	mean := float64(meanGap)
	if isPeakHour(now) {
		mean /= 2
	}
	return time.Duration(rng.ExpFloat64() * mean)
}

// normalMinutes draws from a normal distribution clamped to [min, max].
func normalMinutes(rng *rand.Rand, mean, std, min, max float64) time.Duration {
	m := math.Max(min, math.Min(max, mean+rng.NormFloat64()*std))
	return time.Duration(m * float64(time.Minute))
}

// prepTime varies the kitchen estimate by up to 20% either way.
func prepTime(rng *rand.Rand, estimatedMinutes int) time.Duration {
	if estimatedMinutes <= 0 {
		estimatedMinutes = 15
	}
	variability := 1 + (rng.Float64()*2-1)*0.2
	return time.Duration(float64(estimatedMinutes) * variability * float64(time.Minute))
}
