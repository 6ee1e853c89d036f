package stats

import "math"

// StrikeRate is runs per 100 balls faced.
func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(runs) / float64(balls) * 100
}

// Economy is runs conceded per six balls.
func Economy(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(runs) / (float64(balls) / 6)
}

// Percentage is part over whole times 100.
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Average is total divided by n.
func Average(total, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
