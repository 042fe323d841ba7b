package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

// DefaultPauseThresholdMs is the gap between twists counted as a pause.
const DefaultPauseThresholdMs = 1500

// SessionSummary contains statistics for a single recorded session.
type SessionSummary struct {
	SessionID      string               `json:"session_id"`
	StartedAt      string               `json:"started_at"`
	EndedAt        string               `json:"ended_at,omitempty"`
	DurationMs     int64                `json:"duration_ms"`
	Scramble       string               `json:"scramble,omitempty"`
	Solved         bool                 `json:"solved"`
	TotalTwists    int                  `json:"total_twists"`
	Moves          int                  `json:"moves"`
	OptimizedMoves int                  `json:"optimized_moves"`
	Efficiency     float64              `json:"efficiency"`
	TPSOverall     float64              `json:"tps_overall"`
	Phases         []storage.PhaseSplit `json:"phases,omitempty"`
	LongestPauseMs int64                `json:"longest_pause_ms"`
	PauseCount     int                  `json:"pause_count"`
	AvgTwistGapMs  float64              `json:"avg_twist_gap_ms"`
	Repetitions    *RepetitionReport    `json:"repetitions"`
	NGrams         *NGramReport         `json:"ngrams"`
}

// Summarize computes the summary of a session from its stored records.
func Summarize(session *storage.Session, records []storage.TwistRecord, splits []storage.PhaseSplit) *SessionSummary {
	steps := StepsFromRecords(records)

	var moves []Step
	for _, s := range steps {
		if !s.Twist.IsRotation() {
			moves = append(moves, s)
		}
	}
	optimized := OptimizeTwists(twistsOf(moves))

	summary := &SessionSummary{
		SessionID:      session.SessionID,
		StartedAt:      session.StartedAt.Format(time.RFC3339),
		Solved:         session.Solved,
		TotalTwists:    len(steps),
		Moves:          len(moves),
		OptimizedMoves: len(optimized),
		Efficiency:     CalculateEfficiency(len(moves), len(optimized)),
		Phases:         splits,
		LongestPauseMs: FindLongestPause(steps),
		PauseCount:     CountPausesOver(steps, DefaultPauseThresholdMs),
		AvgTwistGapMs:  CalculateAvgTwistGap(steps),
		Repetitions:    AnalyzeRepetitions(moves),
		NGrams:         MineNGrams(moves, DefaultNGramMin, DefaultNGramMax, DefaultNGramTopK),
	}
	if session.EndedAt != nil {
		summary.EndedAt = session.EndedAt.Format(time.RFC3339)
	}
	if session.Scramble != nil {
		summary.Scramble = *session.Scramble
	}

	switch {
	case session.DurationMs != nil:
		summary.DurationMs = *session.DurationMs
	case len(steps) > 1:
		summary.DurationMs = steps[len(steps)-1].TsMs - steps[0].TsMs
	}
	summary.TPSOverall = CalculateTPS(len(moves), summary.DurationMs)

	return summary
}

// PauseInfo represents a pause between two twists.
type PauseInfo struct {
	AfterIndex int   `json:"after_index"`
	DurationMs int64 `json:"duration_ms"`
	TsMs       int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(steps []Step, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i := 1; i < len(steps); i++ {
		gap := steps[i].TsMs - steps[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterIndex: i - 1,
				DurationMs: gap,
				TsMs:       steps[i-1].TsMs,
			})
		}
	}

	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(turns int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(turns) / (float64(durationMs) / 1000.0)
}

// CalculateAvgTwistGap calculates the average time between twists.
func CalculateAvgTwistGap(steps []Step) float64 {
	if len(steps) < 2 {
		return 0
	}

	totalGap := steps[len(steps)-1].TsMs - steps[0].TsMs
	return float64(totalGap) / float64(len(steps)-1)
}

// FindLongestPause finds the longest gap between twists.
func FindLongestPause(steps []Step) int64 {
	var longest int64

	for i := 1; i < len(steps); i++ {
		if gap := steps[i].TsMs - steps[i-1].TsMs; gap > longest {
			longest = gap
		}
	}

	return longest
}

// CountPausesOver counts gaps longer than thresholdMs.
func CountPausesOver(steps []Step, thresholdMs int64) int {
	return len(AnalyzePauses(steps, thresholdMs+1))
}

// FormatReport renders a summary as plain text.
func FormatReport(s *SessionSummary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Session %s\n", s.SessionID)
	fmt.Fprintf(&sb, "  Started:    %s\n", s.StartedAt)
	if s.EndedAt != "" {
		fmt.Fprintf(&sb, "  Ended:      %s\n", s.EndedAt)
	}
	if s.Scramble != "" {
		fmt.Fprintf(&sb, "  Scramble:   %s\n", s.Scramble)
	}
	fmt.Fprintf(&sb, "  Solved:     %t\n", s.Solved)
	fmt.Fprintf(&sb, "  Duration:   %s\n", formatMs(s.DurationMs))
	fmt.Fprintf(&sb, "  Moves:      %d (%d after merging, %.0f%%)\n", s.Moves, s.OptimizedMoves, s.Efficiency*100)
	fmt.Fprintf(&sb, "  TPS:        %.2f\n", s.TPSOverall)
	fmt.Fprintf(&sb, "  Pauses:     %d over %s, longest %s\n",
		s.PauseCount, formatMs(DefaultPauseThresholdMs), formatMs(s.LongestPauseMs))

	if len(s.Phases) > 0 {
		sb.WriteString("\nPhases:\n")
		for _, p := range s.Phases {
			fmt.Fprintf(&sb, "  %-20s %10s %4d moves\n", p.PhaseKey, formatMs(p.DurationMs), p.Moves)
		}
	}

	if r := s.Repetitions; r != nil && r.TotalWastedMoves > 0 {
		sb.WriteString("\nWasted motion:\n")
		fmt.Fprintf(&sb, "  Cancellations: %d\n", len(r.ImmediateCancellations))
		fmt.Fprintf(&sb, "  Merges:        %d\n", len(r.MergeOpportunities))
		for _, p := range r.BackAndForthPatterns {
			fmt.Fprintf(&sb, "  %s x%d at %s\n", strings.Join(p.Pattern, " "), p.Count, formatMs(p.TsMs))
		}
	}

	if s.NGrams != nil && len(s.NGrams.TopNGrams) > 0 {
		sb.WriteString("\nRepeated sequences:\n")
		formatNGrams(&sb, s.NGrams, maxReportedNGrams)
	}

	return sb.String()
}

// maxReportedNGrams caps the sequences listed in text reports.
const maxReportedNGrams = 5

// formatNGrams lists the most repeated sequence of each length, longest
// first, up to limit lines.
func formatNGrams(sb *strings.Builder, r *NGramReport, limit int) {
	lines := 0
	for _, n := range r.Lengths() {
		if lines >= limit {
			return
		}
		ngrams := r.TopNGrams[n]
		if len(ngrams) == 0 {
			continue
		}
		fmt.Fprintf(sb, "  %-30s x%d\n", ngrams[0].Key(), ngrams[0].Count)
		lines++
	}
}

func formatMs(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
