package models

import "math"

func roundInt(f float64) int {
	return int(math.Round(f))
}
