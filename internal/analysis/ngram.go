package analysis

import (
	"sort"
	"strings"
)

// Default n-gram mining bounds used by Summarize.
const (
	DefaultNGramMin  = 3
	DefaultNGramMax  = 8
	DefaultNGramTopK = 3
)

// maxOccurrences caps the sample positions kept per n-gram.
const maxOccurrences = 10

// NGram is a twist sequence that repeats within a session.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// Key returns the sequence as space-separated notation.
func (g NGram) Key() string {
	return strings.Join(g.Sequence, " ")
}

// NGramOccurrence is where an n-gram was found.
type NGramOccurrence struct {
	SessionID  string `json:"session_id,omitempty"`
	StartIndex int    `json:"start_index"`
	TsMs       int64  `json:"ts_ms"`
}

// NGramReport holds the most frequent n-grams, keyed by n.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// Lengths returns the n values present, longest first.
func (r *NGramReport) Lengths() []int {
	ns := make([]int, 0, len(r.TopNGrams))
	for n := range r.TopNGrams {
		ns = append(ns, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ns)))
	return ns
}

// RollingHash is a Rabin-Karp hash over a fixed window of tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint16
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31,
		n:      n,
		window: make([]uint16, 0, n),
		pow:    1,
	}
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll pushes token into the window, dropping the oldest once it is full.
func (rh *RollingHash) Roll(token uint16) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint16 {
	return append([]uint16(nil), rh.window...)
}

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

// tokenize assigns every distinct twist notation a small integer, starting
// at 1 so a zero never hashes the same as an empty slot.
func tokenize(steps []Step) ([]uint16, []string) {
	ids := make(map[string]uint16)
	vocab := []string{""}
	tokens := make([]uint16, len(steps))
	for i, s := range steps {
		name := s.Twist.String()
		id, ok := ids[name]
		if !ok {
			id = uint16(len(vocab))
			ids[name] = id
			vocab = append(vocab, name)
		}
		tokens[i] = id
	}
	return tokens, vocab
}

type ngramEntry struct {
	tokens      []uint16
	count       int
	first       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the topK most frequent repeated n-grams for each n in
// [minN, maxN]. Only sequences seen at least twice are reported; ties go to
// the sequence seen first.
func MineNGrams(steps []Step, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	if minN < 1 || len(steps) < minN {
		return report
	}

	tokens, vocab := tokenize(steps)
	for n := minN; n <= maxN && n <= len(steps); n++ {
		if ngrams := mineNGramsForN(tokens, vocab, steps, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report
}

func mineNGramsForN(tokens []uint16, vocab []string, steps []Step, n, topK int) []NGram {
	// Collisions chain under the same hash.
	counts := make(map[uint64][]*ngramEntry)
	var order []*ngramEntry
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}

		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: steps[start].TsMs}
		window := rh.Window()

		var entry *ngramEntry
		for _, e := range counts[rh.Hash()] {
			if tokensEqual(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: window, first: start}
			counts[rh.Hash()] = append(counts[rh.Hash()], entry)
			order = append(order, entry)
		}
		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	var repeated []*ngramEntry
	for _, e := range order {
		if e.count >= 2 {
			repeated = append(repeated, e)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].count > repeated[j].count
	})
	if len(repeated) > topK {
		repeated = repeated[:topK]
	}

	result := make([]NGram, len(repeated))
	for i, e := range repeated {
		seq := make([]string, len(e.tokens))
		for j, tok := range e.tokens {
			seq[j] = vocab[tok]
		}
		result[i] = NGram{N: n, Sequence: seq, Count: e.count, Occurrences: e.occurrences}
	}
	return result
}

func tokensEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MineNGramsAcrossSessions adds up per-session reports. Token ids differ
// between sessions, so sequences are matched by notation.
func MineNGramsAcrossSessions(sessions map[string]*NGramReport, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}

	// Walk sessions in a fixed order so ties and samples are stable.
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byN := make(map[int]map[string]*NGram)
	keys := make(map[int][]string)
	for _, id := range ids {
		r := sessions[id]
		if r == nil {
			continue
		}
		for n, ngrams := range r.TopNGrams {
			if byN[n] == nil {
				byN[n] = make(map[string]*NGram)
			}
			for _, ng := range ngrams {
				key := ng.Key()
				agg, ok := byN[n][key]
				if !ok {
					agg = &NGram{N: n, Sequence: ng.Sequence}
					byN[n][key] = agg
					keys[n] = append(keys[n], key)
				}
				agg.Count += ng.Count
				for _, occ := range ng.Occurrences {
					if len(agg.Occurrences) >= maxOccurrences {
						break
					}
					occ.SessionID = id
					agg.Occurrences = append(agg.Occurrences, occ)
				}
			}
		}
	}

	for n, agg := range byN {
		ngrams := make([]NGram, 0, len(agg))
		for _, key := range keys[n] {
			ngrams = append(ngrams, *agg[key])
		}
		sort.SliceStable(ngrams, func(i, j int) bool {
			return ngrams[i].Count > ngrams[j].Count
		})
		if len(ngrams) > topK {
			ngrams = ngrams[:topK]
		}
		report.TopNGrams[n] = ngrams
	}
	return report
}
