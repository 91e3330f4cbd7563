package analysis

// Horizontal direction classification ignores steps smaller than this to
// filter hand jitter.
const reversalJitterThreshold = 1.0

// StrokeReversal describes left/right direction changes within one stroke.
type StrokeReversal struct {
	InitialDir    int // 1 = right, -1 = left, 0 = no clear horizontal motion
	ReversalCount int
}

// HasReversal reports whether the stroke changed horizontal direction.
func (r StrokeReversal) HasReversal() bool { return r.ReversalCount > 0 }

// ReversalSummary aggregates reversal behaviour across a session's strokes.
type ReversalSummary struct {
	Strokes          int     `json:"strokes"`
	WithReversal     int     `json:"with_reversal"`
	StartedRight     int     `json:"started_right"`
	StartedLeft      int     `json:"started_left"`
	AvgReversals     float64 `json:"avg_reversals_per_stroke"`
	RightThenReverse int     `json:"started_right_then_reversed"`
	LeftThenReverse  int     `json:"started_left_then_reversed"`
}

// SegmentStrokes groups the session's drag rows into strokes: consecutive
// drag rows belong to one stroke, and any intervening non-drag row ends it.
func SegmentStrokes(s *SessionData) [][]Row {
	var strokes [][]Row
	var current []Row
	for _, r := range s.Rows {
		if r.Kind.IsDrag() && r.Pos != nil {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			strokes = append(strokes, current)
			current = nil
		}
	}
	if len(current) > 0 {
		strokes = append(strokes, current)
	}
	return strokes
}

// AnalyzeStroke computes the left/right reversal profile of one stroke.
// Returns false when the stroke is too short to analyze.
func AnalyzeStroke(stroke []Row) (StrokeReversal, bool) {
	if len(stroke) < 2 {
		return StrokeReversal{}, false
	}

	dirs := make([]int, 0, len(stroke)-1)
	for i := 1; i < len(stroke); i++ {
		dx := stroke[i].Pos.X - stroke[i-1].Pos.X
		switch {
		case dx > reversalJitterThreshold:
			dirs = append(dirs, 1)
		case dx < -reversalJitterThreshold:
			dirs = append(dirs, -1)
		default:
			dirs = append(dirs, 0)
		}
	}

	var result StrokeReversal
	for _, d := range dirs {
		if d != 0 {
			result.InitialDir = d
			break
		}
	}
	if result.InitialDir == 0 {
		return result, true
	}

	prev := result.InitialDir
	for _, d := range dirs {
		if d == 0 {
			continue
		}
		if d != prev {
			result.ReversalCount++
			prev = d
		}
	}
	return result, true
}

// Reversals computes the session-level reversal summary.
func Reversals(s *SessionData) ReversalSummary {
	var summary ReversalSummary
	total := 0
	for _, stroke := range SegmentStrokes(s) {
		r, ok := AnalyzeStroke(stroke)
		if !ok {
			continue
		}
		summary.Strokes++
		total += r.ReversalCount
		if r.HasReversal() {
			summary.WithReversal++
		}
		switch r.InitialDir {
		case 1:
			summary.StartedRight++
			if r.HasReversal() {
				summary.RightThenReverse++
			}
		case -1:
			summary.StartedLeft++
			if r.HasReversal() {
				summary.LeftThenReverse++
			}
		}
	}
	if summary.Strokes > 0 {
		summary.AvgReversals = float64(total) / float64(summary.Strokes)
	}
	return summary
}
