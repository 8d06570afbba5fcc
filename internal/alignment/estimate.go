package alignment

// Match describes the longest run shared by two profiles.
type Match struct {
	StartA int
	StartB int
	Length int
}

// Offset is the shift that carries the run in b onto the run in a.
func (m Match) Offset() int {
	return m.StartA - m.StartB
}

// LongestCommonRun finds the longest contiguous run of equal values present
// in both a and b. Among equally long runs the one starting earliest in a
// wins, then the one starting earliest in b. When nothing matches the zero
// Match is returned.
func LongestCommonRun(a, b []uint64) Match {
	var best Match
	if len(a) == 0 || len(b) == 0 {
		return best
	}

	// prev[j+1] holds the run length ending at a[i-1], b[j].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				curr[j+1] = 0
				continue
			}
			k := prev[j] + 1
			curr[j+1] = k
			// Runs are visited in order of their end in a; for a fixed
			// length that is also the order of their start.
			if k > best.Length {
				best = Match{StartA: i - k + 1, StartB: j - k + 1, Length: k}
			}
		}
		prev, curr = curr, prev
	}
	return best
}

// EstimateOffset returns startA - startB of the longest common run of the
// two profiles, or 0 when they share nothing.
func EstimateOffset(a, b []uint64) int {
	return LongestCommonRun(a, b).Offset()
}
