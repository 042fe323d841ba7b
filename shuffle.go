package gocube

import "go.uber.org/zap"

// Shuffle clears both queues and queues amount random twists picked from
// alphabet, or from the configured alphabet when none is given. No twist is
// ever the exact inverse of the one before it. Shuffle twists are neither
// counted as moves nor kept in history; OnShuffleComplete fires once the
// last of them completes. A shuffle twist still turning from an earlier
// shuffle never completes a later one. It returns the queued twists.
func (c *Cube) Shuffle(amount int, alphabet ...string) []Twist {
	if amount <= 0 {
		amount = c.cfg.shuffleLength
	}
	letters := c.cfg.shuffleAlphabet
	if len(alphabet) > 0 && alphabet[0] != "" {
		letters = alphabet[0]
	}

	pool := shufflePool(letters)
	if len(pool) == 0 {
		c.logger.Warn("shuffle alphabet has no valid commands", zap.String("alphabet", letters))
		return nil
	}

	c.twistQueue.Empty(true)
	c.historyQueue.Empty(true)
	c.undoing = false

	picks := make([]Twist, 0, amount)
	var last Twist
	for len(picks) < amount {
		t := pool[c.random.IntN(len(pool))]
		if !last.IsZero() && t.Equals(last.Inverse()) {
			continue
		}
		t.IsShuffle = true
		c.serial++
		t.serial = c.serial
		picks = append(picks, t)
		last = t
	}

	c.shuffleLast = picks[len(picks)-1].serial
	c.twistQueue.Add(picks...)

	c.logger.Debug("shuffle queued",
		zap.Int("amount", amount),
		zap.String("sequence", FormatTwists(picks)),
	)
	return picks
}

// shufflePool turns an alphabet into the distinct twists it allows.
func shufflePool(letters string) []Twist {
	var pool []Twist
	seen := make(map[byte]bool, len(letters))
	for i := 0; i < len(letters); i++ {
		b := letters[i]
		if seen[b] {
			continue
		}
		seen[b] = true
		if t, err := NewTwist(b); err == nil {
			pool = append(pool, t)
		}
	}
	return pool
}
