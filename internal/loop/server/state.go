package server

// requestKind identifies a queued leaderboard request.
type requestKind int

const (
	requestSave requestKind = iota
	requestTopScores
	requestHallOfFame
)

func (k requestKind) String() string {
	switch k {
	case requestSave:
		return "save"
	case requestTopScores:
		return "top_scores"
	case requestHallOfFame:
		return "hall_of_fame"
	default:
		return "unknown"
	}
}

// request is one unit of work for the worker pool.
type request struct {
	kind       requestKind
	clientID   int
	generation uint64
	name       string // requestSave
	score      int    // requestSave
}
