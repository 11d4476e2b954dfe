package stats

import "time"

// NextStreak computes the streak values after a practice on `now`.
// Same UTC day as the last practice leaves the streak unchanged, the
// next day extends it, and any longer gap resets it to 1.
func NextStreak(current, longest int, lastPractice *time.Time, now time.Time) (int, int) {
	today := now.UTC().Truncate(24 * time.Hour)

	if lastPractice == nil {
		// First ever practice
		current = 1
	} else {
		last := lastPractice.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			// Already practiced today — no change
		case today.Sub(last) == 24*time.Hour:
			current++
		default:
			current = 1
		}
	}

	if current > longest {
		longest = current
	}
	return current, longest
}
