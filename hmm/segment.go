package hmm

// Segment is a run of identical states in a decoded path.
type Segment struct {
	State int `json:"state"`
	Start int `json:"start"` // first time step
	End   int `json:"end"`   // one past the last time step
}

// Segments collapses a state path into runs.
func Segments(path []int) []Segment {
	var segs []Segment
	for t, s := range path {
		if n := len(segs); n > 0 && segs[n-1].State == s {
			segs[n-1].End = t + 1
			continue
		}
		segs = append(segs, Segment{State: s, Start: t, End: t + 1})
	}
	return segs
}

// StateOrder returns the state of each segment in path.
func StateOrder(path []int) []int {
	segs := Segments(path)
	order := make([]int, len(segs))
	for i, s := range segs {
		order[i] = s.State
	}
	return order
}

// EditDistance is the Levenshtein distance between two sequences.
func EditDistance[T comparable](a, b []T) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}
