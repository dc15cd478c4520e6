package amm

import (
	"math/big"
	"time"
)

// DefaultDeadlineWindow is how long a submitted call stays valid.
const DefaultDeadlineWindow = 20 * time.Minute

// Deadline returns the absolute unix expiry for a call submitted at now.
func Deadline(now time.Time, window time.Duration) *big.Int {
	if window <= 0 {
		window = DefaultDeadlineWindow
	}
	return big.NewInt(now.Add(window).Unix())
}
