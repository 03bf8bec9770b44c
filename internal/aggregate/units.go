package aggregate

// Billing units are 6-minute (0.1 hour) increments, always rounded up:
// one second past a unit boundary bills the next full tenth.
const secondsPerTenth = 36

// Units converts a summed duration to billing units, ceiling to one
// decimal. Any positive activity bills at least 0.1 units.
func Units(seconds int) float64 {
	if seconds <= 0 {
		return 0.1
	}
	tenths := (seconds + secondsPerTenth - 1) / secondsPerTenth
	return float64(tenths) / 10
}
