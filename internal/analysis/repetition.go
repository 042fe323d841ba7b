// Package analysis derives statistics from recorded sessions.
package analysis

import (
	"math"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

// Step is one player twist with its session timestamp.
type Step struct {
	Twist gocube.Twist
	TsMs  int64
}

// StepsFromRecords turns stored twists back into steps. Shuffle twists and
// records whose notation no longer parses are skipped.
func StepsFromRecords(records []storage.TwistRecord) []Step {
	steps := make([]Step, 0, len(records))
	for _, r := range records {
		if r.IsShuffle {
			continue
		}
		twists := gocube.ParseTwists(r.Notation)
		if len(twists) != 1 {
			continue
		}
		steps = append(steps, Step{Twist: twists[0], TsMs: r.TsMs})
	}
	return steps
}

// Cancellation represents an immediate undo (e.g., R followed by r).
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Twist1 string `json:"twist1"`
	Twist2 string `json:"twist2"`
	TsMs   int64  `json:"ts_ms"`
}

// MergeOpportunity represents adjacent twists of the same slice that could
// have been one twist.
type MergeOpportunity struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Twist1 string `json:"twist1"`
	Twist2 string `json:"twist2"`
	Merged string `json:"merged"`
	TsMs   int64  `json:"ts_ms"`
}

// BackAndForthPattern represents alternating twists (e.g., R U R U R U).
type BackAndForthPattern struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
	TsMs       int64    `json:"ts_ms"`
}

// RepetitionReport contains all repetition analysis results.
type RepetitionReport struct {
	ImmediateCancellations []Cancellation        `json:"immediate_cancellations"`
	MergeOpportunities     []MergeOpportunity    `json:"merge_opportunities"`
	BackAndForthPatterns   []BackAndForthPattern `json:"back_and_forth_patterns"`
	TotalWastedMoves       int                   `json:"total_wasted_moves"`
}

// AnalyzeRepetitions looks for wasted motion in a twist sequence.
func AnalyzeRepetitions(steps []Step) *RepetitionReport {
	report := &RepetitionReport{
		ImmediateCancellations: []Cancellation{},
		MergeOpportunities:     []MergeOpportunity{},
		BackAndForthPatterns:   []BackAndForthPattern{},
	}

	for i := 0; i+1 < len(steps); i++ {
		s1, s2 := steps[i], steps[i+1]
		if s1.Twist.Letter() != s2.Twist.Letter() {
			continue
		}

		merged, ok := mergeTwists(s1.Twist, s2.Twist)
		if !ok {
			report.ImmediateCancellations = append(report.ImmediateCancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Twist1: s1.Twist.String(),
				Twist2: s2.Twist.String(),
				TsMs:   s1.TsMs,
			})
			report.TotalWastedMoves += 2
			continue
		}

		report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
			Index1: i,
			Index2: i + 1,
			Twist1: s1.Twist.String(),
			Twist2: s2.Twist.String(),
			Merged: merged.String(),
			TsMs:   s1.TsMs,
		})
		report.TotalWastedMoves++
	}

	report.BackAndForthPatterns = findBackAndForth(steps)
	return report
}

// findBackAndForth finds an AB pair repeated at least three times in a row.
func findBackAndForth(steps []Step) []BackAndForthPattern {
	patterns := []BackAndForthPattern{}

	i := 0
	for i+3 < len(steps) {
		a, b := steps[i].Twist, steps[i+1].Twist

		count := 1
		j := i + 2
		for j+1 < len(steps) && steps[j].Twist.Equals(a) && steps[j+1].Twist.Equals(b) {
			count++
			j += 2
		}

		if count >= 3 {
			patterns = append(patterns, BackAndForthPattern{
				StartIndex: i,
				EndIndex:   i + count*2 - 1,
				Pattern:    []string{a.String(), b.String()},
				Count:      count,
				TsMs:       steps[i].TsMs,
			})
			i = j
		} else {
			i++
		}
	}

	return patterns
}

// OptimizeTwists folds adjacent twists of the same slice together and drops
// the ones that cancel.
func OptimizeTwists(twists []gocube.Twist) []gocube.Twist {
	result := make([]gocube.Twist, 0, len(twists))

	for _, t := range twists {
		if len(result) == 0 || result[len(result)-1].Letter() != t.Letter() {
			result = append(result, t)
			continue
		}

		merged, ok := mergeTwists(result[len(result)-1], t)
		if ok {
			result[len(result)-1] = merged
		} else {
			result = result[:len(result)-1]
		}
	}

	return result
}

// CalculateEfficiency calculates the efficiency ratio (optimized/original).
func CalculateEfficiency(original, optimized int) float64 {
	if original == 0 {
		return 1.0
	}
	return float64(optimized) / float64(original)
}

// mergeTwists adds two twists of the same slice. It reports false when they
// cancel out. The result turns at most a half turn either way.
func mergeTwists(t1, t2 gocube.Twist) (gocube.Twist, bool) {
	total := float64(t1.Vector)*t1.Degrees + float64(t2.Vector)*t2.Degrees
	total = math.Mod(total, 360)
	switch {
	case total > 180:
		total -= 360
	case total <= -180:
		total += 360
	}
	if math.Abs(total) < 1e-9 {
		return gocube.Twist{}, false
	}

	merged, err := gocube.NewTwist(t1.Letter(), total)
	if err != nil {
		return gocube.Twist{}, false
	}
	return merged, true
}

func twistsOf(steps []Step) []gocube.Twist {
	twists := make([]gocube.Twist, len(steps))
	for i, s := range steps {
		twists[i] = s.Twist
	}
	return twists
}
