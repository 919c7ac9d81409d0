package report

import "math"

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// meanDays returns the arithmetic mean rounded to one decimal, or 0.0 for an
// empty list.
func meanDays(durations []float64) float64 {
	if len(durations) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, d := range durations {
		sum += d
	}
	return round1(sum / float64(len(durations)))
}

// bucketDurations distributes resolution durations across the speed
// histogram.
func bucketDurations(durations []float64) SpeedBuckets {
	var b SpeedBuckets
	for _, days := range durations {
		switch {
		case days < 1.0:
			b.LessThan24h++
		case days <= 3.0:
			b.OneToThreeDays++
		case days <= 7.0:
			b.ThreeToSevenDays++
		default:
			b.MoreThanSevenDays++
		}
	}
	return b
}
