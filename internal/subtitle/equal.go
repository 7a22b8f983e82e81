package subtitle

import "math"

// IsEquivalent reports whether two caption sequences carry the same text and
// timing at every position.
func IsEquivalent(stored, parsed []Caption) bool {
	if len(stored) != len(parsed) {
		return false
	}
	for i := range stored {
		a, b := stored[i], parsed[i]
		if a.Text != b.Text || a.StartTime != b.StartTime || a.EndTime != b.EndTime {
			return false
		}
	}
	return true
}

// EquivalentWithin is IsEquivalent with times compared up to tolerance
// seconds, for formats that drop fractional precision.
func EquivalentWithin(a, b []Caption, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text ||
			!timeWithin(a[i].StartTime, b[i].StartTime, tolerance) ||
			!timeWithin(a[i].EndTime, b[i].EndTime, tolerance) {
			return false
		}
	}
	return true
}

func timeWithin(a, b, tolerance float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tolerance
}
