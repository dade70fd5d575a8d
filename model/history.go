package model

// historySize is how many recent generations are kept for cycle detection
const historySize = 5

// History remembers the hashes of recent generations to spot still lifes
// and short-period oscillators.
type History struct {
	hashes []string
}

// Push records a generation's hash, keeping only the most recent few
func (h *History) Push(hash string) {
	h.hashes = append(h.hashes, hash)
	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether hash repeats one of the last three recorded
// generations, i.e. the board is static or cycling with period ≤ 3
func (h *History) IsStagnant(hash string) bool {
	if len(h.hashes) < 3 {
		return false
	}
	for i := 1; i <= 3; i++ {
		if h.hashes[len(h.hashes)-i] == hash {
			return true
		}
	}
	return false
}

// Reset forgets all recorded generations
func (h *History) Reset() {
	h.hashes = nil
}
