package domain

// DashaPeriod is the current Vimshottari mahadasha for a chart.
type DashaPeriod struct {
	Lord           Body    // ruling planet of the period
	DurationYears  float64 // full length of this lord's period
	RemainingYears float64 // time left in the period, always > 0
}
