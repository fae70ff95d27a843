package itinerary

// GenerateIntensityCurve returns one target intensity per day: a rise to 0.5,
// a plateau, then a taper. A single day is flat at 0.5 and a non-positive day
// count yields an empty curve.
func GenerateIntensityCurve(days int) []float64 {
	if days <= 0 {
		return []float64{}
	}
	if days == 1 {
		return []float64{0.5}
	}

	curve := make([]float64, days)
	for i := range curve {
		progress := float64(i) / float64(days-1)
		switch {
		case progress < 0.3:
			curve[i] = 0.3 + progress*0.5
		case progress < 0.7:
			curve[i] = 0.5
		default:
			curve[i] = 0.5 - (progress-0.7)*0.7
		}
	}
	return curve
}
