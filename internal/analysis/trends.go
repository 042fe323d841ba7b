package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

// SessionData is the part of a session that trend analysis looks at.
type SessionData struct {
	SessionID  string
	StartedAt  time.Time
	DurationMs int64
	Moves      int
	TPS        float64
	Solved     bool
	Phases     []storage.PhaseSplit
	NGrams     *NGramReport
}

// SessionDataFrom pairs a stored session with its summary.
func SessionDataFrom(session *storage.Session, summary *SessionSummary) SessionData {
	return SessionData{
		SessionID:  session.SessionID,
		StartedAt:  session.StartedAt,
		DurationMs: summary.DurationMs,
		Moves:      summary.Moves,
		TPS:        summary.TPSOverall,
		Solved:     summary.Solved,
		Phases:     summary.Phases,
		NGrams:     summary.NGrams,
	}
}

// TrendReport contains trend analysis across multiple sessions. Only solved
// sessions with a duration feed the averages.
type TrendReport struct {
	TotalSessions int       `json:"total_sessions"`
	SolvedCount   int       `json:"solved_sessions"`
	DateRange     DateRange `json:"date_range"`

	AvgDurationMs float64 `json:"avg_duration_ms"`
	AvgMoves      float64 `json:"avg_moves"`
	AvgTPS        float64 `json:"avg_tps"`

	Best  SessionStats `json:"best"`
	Worst SessionStats `json:"worst"`

	// ImprovementPct compares the first and last quarter of solves; positive
	// means faster.
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"`

	PhaseTrends []PhaseTrend `json:"phase_trends"`

	// Mean duration of the last 5, 12, 25 and 50 solves, where there are
	// enough.
	RollingAvgs map[int]float64 `json:"rolling_averages"`

	Sessions []SessionStats `json:"sessions"`

	// Sequences repeated most often across every session, solved or not.
	Sequences *NGramReport `json:"sequences,omitempty"`
}

// DateRange represents a date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SessionStats is one solved session in a trend report.
type SessionStats struct {
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs int64   `json:"duration_ms"`
	Moves      int     `json:"moves"`
	TPS        float64 `json:"tps"`
}

// PhaseTrend represents trends for a specific phase.
type PhaseTrend struct {
	PhaseKey       string  `json:"phase_key"`
	Samples        int     `json:"samples"`
	AvgDurationMs  float64 `json:"avg_duration_ms"`
	AvgMoves       float64 `json:"avg_moves"`
	ImprovementPct float64 `json:"improvement_pct"`
}

// RollingWindows are the window sizes reported in TrendReport.RollingAvgs.
var RollingWindows = []int{5, 12, 25, 50}

// AnalyzeTrends analyzes trends across sessions, oldest first regardless of
// the order given.
func AnalyzeTrends(sessions []SessionData) *TrendReport {
	report := &TrendReport{
		TotalSessions: len(sessions),
		RollingAvgs:   make(map[int]float64),
		Sessions:      []SessionStats{},
	}
	if len(sessions) == 0 {
		return report
	}

	sorted := append([]SessionData(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})
	report.DateRange = DateRange{
		Start: sorted[0].StartedAt.Format(time.RFC3339),
		End:   sorted[len(sorted)-1].StartedAt.Format(time.RFC3339),
	}

	perSession := make(map[string]*NGramReport)
	for _, s := range sorted {
		if s.NGrams != nil {
			perSession[s.SessionID] = s.NGrams
		}
	}
	if len(perSession) > 0 {
		report.Sequences = MineNGramsAcrossSessions(perSession, DefaultNGramTopK)
	}

	var solved []SessionData
	for _, s := range sorted {
		if s.Solved && s.DurationMs > 0 {
			solved = append(solved, s)
		}
	}
	report.SolvedCount = len(solved)
	if len(solved) == 0 {
		return report
	}

	var totalDuration, totalMoves int64
	var totalTPS float64
	best, worst := solved[0], solved[0]
	durations := make([]int64, len(solved))

	for i, s := range solved {
		totalDuration += s.DurationMs
		totalMoves += int64(s.Moves)
		totalTPS += s.TPS
		durations[i] = s.DurationMs
		report.Sessions = append(report.Sessions, statsOf(s))

		if s.DurationMs < best.DurationMs {
			best = s
		}
		if s.DurationMs > worst.DurationMs {
			worst = s
		}
	}

	n := float64(len(solved))
	report.AvgDurationMs = float64(totalDuration) / n
	report.AvgMoves = float64(totalMoves) / n
	report.AvgTPS = totalTPS / n
	report.Best = statsOf(best)
	report.Worst = statsOf(worst)
	report.ImprovementPct = quarterImprovement(durations)
	report.ConsistencyScore = consistency(durations)

	for _, w := range RollingWindows {
		if len(durations) >= w {
			report.RollingAvgs[w] = mean(durations[len(durations)-w:])
		}
	}

	report.PhaseTrends = phaseTrends(solved)
	return report
}

func statsOf(s SessionData) SessionStats {
	return SessionStats{
		SessionID:  s.SessionID,
		Timestamp:  s.StartedAt.Format(time.RFC3339),
		DurationMs: s.DurationMs,
		Moves:      s.Moves,
		TPS:        s.TPS,
	}
}

func mean(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// quarterImprovement compares the mean of the first and last quarter of
// values, as a percentage of the first. Fewer than four values give 0.
func quarterImprovement(values []int64) float64 {
	if len(values) < 4 {
		return 0
	}
	q := len(values) / 4
	first := mean(values[:q])
	last := mean(values[len(values)-q:])
	if first <= 0 {
		return 0
	}
	return (first - last) / first * 100
}

// consistency maps the coefficient of variation onto 0..100, where 100 means
// every value is the same.
func consistency(values []int64) float64 {
	if len(values) < 2 {
		return 100
	}
	m := mean(values)
	if m <= 0 {
		return 100
	}
	var sumSquares float64
	for _, v := range values {
		d := float64(v) - m
		sumSquares += d * d
	}
	cv := math.Sqrt(sumSquares/float64(len(values))) / m
	return math.Max(0, math.Min(100, 100-cv*100))
}

// phaseTrends averages each phase over the sessions that reached it,
// ordered by phase key.
func phaseTrends(sessions []SessionData) []PhaseTrend {
	durations := make(map[string][]int64)
	moves := make(map[string]int)
	for _, s := range sessions {
		for _, p := range s.Phases {
			durations[p.PhaseKey] = append(durations[p.PhaseKey], p.DurationMs)
			moves[p.PhaseKey] += p.Moves
		}
	}

	trends := make([]PhaseTrend, 0, len(durations))
	for key, d := range durations {
		trends = append(trends, PhaseTrend{
			PhaseKey:       key,
			Samples:        len(d),
			AvgDurationMs:  mean(d),
			AvgMoves:       float64(moves[key]) / float64(len(d)),
			ImprovementPct: quarterImprovement(d),
		})
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].PhaseKey < trends[j].PhaseKey })
	return trends
}

// FormatTrendReport renders a trend report as plain text.
func FormatTrendReport(r *TrendReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Sessions:     %d (%d solved)\n", r.TotalSessions, r.SolvedCount)
	if r.TotalSessions > 0 {
		fmt.Fprintf(&sb, "Range:        %s .. %s\n", r.DateRange.Start, r.DateRange.End)
	}
	if r.SolvedCount == 0 {
		sb.WriteString("No solved sessions yet\n")
		formatSequences(&sb, r.Sequences)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Average:      %s, %.1f moves, %.2f TPS\n", formatMs(int64(r.AvgDurationMs)), r.AvgMoves, r.AvgTPS)
	fmt.Fprintf(&sb, "Best:         %s (%s)\n", formatMs(r.Best.DurationMs), r.Best.SessionID)
	fmt.Fprintf(&sb, "Worst:        %s (%s)\n", formatMs(r.Worst.DurationMs), r.Worst.SessionID)
	fmt.Fprintf(&sb, "Improvement:  %+.1f%%\n", r.ImprovementPct)
	fmt.Fprintf(&sb, "Consistency:  %.0f/100\n", r.ConsistencyScore)

	for _, w := range RollingWindows {
		if avg, ok := r.RollingAvgs[w]; ok {
			fmt.Fprintf(&sb, "Last %-2d:      %s\n", w, formatMs(int64(avg)))
		}
	}

	if len(r.PhaseTrends) > 0 {
		sb.WriteString("\nPhases:\n")
		for _, p := range r.PhaseTrends {
			fmt.Fprintf(&sb, "  %-20s %10s %6.1f moves %+6.1f%% (%d)\n",
				p.PhaseKey, formatMs(int64(p.AvgDurationMs)), p.AvgMoves, p.ImprovementPct, p.Samples)
		}
	}
	formatSequences(&sb, r.Sequences)
	return sb.String()
}

func formatSequences(sb *strings.Builder, r *NGramReport) {
	if r == nil || len(r.TopNGrams) == 0 {
		return
	}
	sb.WriteString("\nRepeated sequences:\n")
	formatNGrams(sb, r, maxReportedNGrams)
}
