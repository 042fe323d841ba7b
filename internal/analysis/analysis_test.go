package analysis

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

func stepsOf(notation string, gapMs int64) []Step {
	twists := gocube.ParseTwists(notation)
	steps := make([]Step, len(twists))
	for i, t := range twists {
		steps[i] = Step{Twist: t, TsMs: int64(i) * gapMs}
	}
	return steps
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOptimizeTwists(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"R r", ""},
		{"R R", "R180"},
		{"R R R", "r"},
		{"R U u r F", "F"},
		{"R180 R180 U", "U"},
		{"R45 R45", "R"},
		{"R L", "R L"},
		{"X x", ""},
	}
	for _, tt := range tests {
		got := gocube.FormatTwists(OptimizeTwists(gocube.ParseTwists(tt.in)))
		if got != tt.want {
			t.Errorf("OptimizeTwists(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAnalyzeRepetitions(t *testing.T) {
	report := AnalyzeRepetitions(stepsOf("R r U U F", 100))

	if len(report.ImmediateCancellations) != 1 {
		t.Fatalf("cancellations = %+v", report.ImmediateCancellations)
	}
	want := Cancellation{Index1: 0, Index2: 1, Twist1: "R", Twist2: "r", TsMs: 0}
	if report.ImmediateCancellations[0] != want {
		t.Errorf("cancellation = %+v, want %+v", report.ImmediateCancellations[0], want)
	}

	if len(report.MergeOpportunities) != 1 {
		t.Fatalf("merges = %+v", report.MergeOpportunities)
	}
	if m := report.MergeOpportunities[0]; m.Merged != "U180" || m.TsMs != 200 {
		t.Errorf("merge = %+v, want U180 at 200ms", m)
	}

	if report.TotalWastedMoves != 3 {
		t.Errorf("TotalWastedMoves = %d, want 3", report.TotalWastedMoves)
	}
	if len(report.BackAndForthPatterns) != 0 {
		t.Errorf("unexpected patterns %+v", report.BackAndForthPatterns)
	}
}

func TestBackAndForth(t *testing.T) {
	report := AnalyzeRepetitions(stepsOf("F R U R U R U D", 10))
	if len(report.BackAndForthPatterns) != 1 {
		t.Fatalf("patterns = %+v", report.BackAndForthPatterns)
	}

	p := report.BackAndForthPatterns[0]
	if !reflect.DeepEqual(p.Pattern, []string{"R", "U"}) {
		t.Errorf("pattern = %v, want [R U]", p.Pattern)
	}
	if p.Count != 3 || p.StartIndex != 1 || p.EndIndex != 6 {
		t.Errorf("pattern = %+v, want x3 over 1..6", p)
	}

	// Two repetitions are not enough.
	if got := AnalyzeRepetitions(stepsOf("R U R U", 10)).BackAndForthPatterns; len(got) != 0 {
		t.Errorf("R U R U gave %+v", got)
	}
}

func TestStepsFromRecordsSkipsShuffle(t *testing.T) {
	steps := StepsFromRecords([]storage.TwistRecord{
		{Notation: "R", IsShuffle: true, TsMs: 1},
		{Notation: "U180", TsMs: 2},
		{Notation: "", TsMs: 3},
		{Notation: "f", TsMs: 4},
	})
	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].Twist.String() != "U180" {
		t.Errorf("first step = %v", steps[0].Twist)
	}
	if steps[1].TsMs != 4 {
		t.Errorf("second step at %d ms, want 4", steps[1].TsMs)
	}
}

func TestPauses(t *testing.T) {
	steps := []Step{{TsMs: 0}, {TsMs: 100}, {TsMs: 2000}, {TsMs: 2100}, {TsMs: 3600}}

	pauses := AnalyzePauses(steps, 1500)
	if len(pauses) != 2 {
		t.Fatalf("pauses = %+v", pauses)
	}
	if want := (PauseInfo{AfterIndex: 1, DurationMs: 1900, TsMs: 100}); pauses[0] != want {
		t.Errorf("first pause = %+v, want %+v", pauses[0], want)
	}
	if pauses[1].DurationMs != 1500 {
		t.Errorf("second pause = %d ms, want 1500", pauses[1].DurationMs)
	}

	if n := CountPausesOver(steps, 1500); n != 1 {
		t.Errorf("CountPausesOver = %d, want 1", n)
	}
	if got := FindLongestPause(steps); got != 1900 {
		t.Errorf("FindLongestPause = %d, want 1900", got)
	}
	if got := CalculateAvgTwistGap(steps); !near(got, 900) {
		t.Errorf("CalculateAvgTwistGap = %v, want 900", got)
	}
	if got := CalculateAvgTwistGap(steps[:1]); got != 0 {
		t.Errorf("single step gap = %v", got)
	}
}

func TestCalculateTPS(t *testing.T) {
	if got := CalculateTPS(10, 5000); !near(got, 2) {
		t.Errorf("CalculateTPS = %v, want 2", got)
	}
	if got := CalculateTPS(10, 0); got != 0 {
		t.Errorf("CalculateTPS with no time = %v", got)
	}
	if got := CalculateEfficiency(0, 0); got != 1 {
		t.Errorf("CalculateEfficiency(0, 0) = %v, want 1", got)
	}
	if got := CalculateEfficiency(10, 5); !near(got, 0.5) {
		t.Errorf("CalculateEfficiency(10, 5) = %v, want 0.5", got)
	}
}

func TestSummarize(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	duration := int64(4000)
	scramble := "R U"
	session := &storage.Session{
		SessionID:  "abc",
		StartedAt:  started,
		DurationMs: &duration,
		Scramble:   &scramble,
		Solved:     true,
	}
	records := []storage.TwistRecord{
		{Notation: "R", IsShuffle: true},
		{Notation: "U", IsShuffle: true},
		{Notation: "u", TsMs: 1000},
		{Notation: "Y", TsMs: 1500},
		{Notation: "r", TsMs: 3000},
		{Notation: "r", TsMs: 3100},
		{Notation: "r", TsMs: 3200},
		{Notation: "r", TsMs: 3300},
	}
	splits := []storage.PhaseSplit{{PhaseKey: "solved", DurationMs: 3300, Moves: 5}}

	s := Summarize(session, records, splits)
	if s.SessionID != "abc" || s.StartedAt != "2026-01-02T03:04:05Z" || s.EndedAt != "" {
		t.Errorf("identity = %q %q %q", s.SessionID, s.StartedAt, s.EndedAt)
	}
	if s.Scramble != "R U" {
		t.Errorf("Scramble = %q", s.Scramble)
	}
	if s.TotalTwists != 6 || s.Moves != 5 || s.OptimizedMoves != 1 {
		t.Errorf("twists/moves/optimized = %d/%d/%d, want 6/5/1", s.TotalTwists, s.Moves, s.OptimizedMoves)
	}
	if !near(s.TPSOverall, 1.25) {
		t.Errorf("TPSOverall = %v, want 1.25", s.TPSOverall)
	}
	if s.LongestPauseMs != 1500 || s.PauseCount != 0 {
		t.Errorf("pauses = longest %d, count %d", s.LongestPauseMs, s.PauseCount)
	}
	if !reflect.DeepEqual(s.Phases, splits) {
		t.Errorf("Phases = %+v", s.Phases)
	}
	if threes := s.NGrams.TopNGrams[3]; len(threes) != 1 || threes[0].Key() != "r r r" {
		t.Errorf("3-grams = %+v, want r r r", threes)
	}

	report := FormatReport(s)
	for _, want := range []string{"Session abc", "Scramble:   R U", "solved"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
