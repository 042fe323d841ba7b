package gocube

// Queue holds pending elements in future and executed ones in history.
//
// Do moves exactly one element from the front of future to the back of
// history. Undo moves the back of history to the front of future, so an Undo
// followed by a Redo leaves both sequences as they were.
type Queue[T any] struct {
	future  []T
	history []T

	validate func([]T) []T

	// Looping replays history into future once future runs dry.
	Looping bool
	// TrackHistory keeps executed elements for Undo.
	TrackHistory bool
}

// NewQueue returns an empty queue with history tracking on. validate, when
// non-nil, may expand or filter items on the way in.
func NewQueue[T any](validate func([]T) []T) *Queue[T] {
	return &Queue[T]{validate: validate, TrackHistory: true}
}

// Add appends items to future after validation.
func (q *Queue[T]) Add(items ...T) {
	if q.validate != nil {
		items = q.validate(items)
	}
	q.future = append(q.future, items...)
}

// Do pops the front of future. When future is empty and the queue loops,
// history is moved back into future and nothing is returned this call.
func (q *Queue[T]) Do() (T, bool) {
	var zero T
	if len(q.future) == 0 {
		if q.Looping && len(q.history) > 0 {
			q.future = append(q.future, q.history...)
			q.history = q.history[:0]
		}
		return zero, false
	}

	item := q.future[0]
	q.future = q.future[1:]
	if q.TrackHistory {
		q.history = append(q.history, item)
	}
	return item, true
}

// Undo moves the last executed element back to the front of future.
func (q *Queue[T]) Undo() (T, bool) {
	var zero T
	if len(q.history) == 0 {
		return zero, false
	}

	item := q.history[len(q.history)-1]
	q.history = q.history[:len(q.history)-1]
	q.future = append([]T{item}, q.future...)
	return item, true
}

// Pop removes the back of future without executing it.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.future) == 0 {
		return zero, false
	}
	item := q.future[len(q.future)-1]
	q.future[len(q.future)-1] = zero
	q.future = q.future[:len(q.future)-1]
	return item, true
}

// Redo is Do.
func (q *Queue[T]) Redo() (T, bool) {
	return q.Do()
}

// Remove drops matching elements from future and returns how many went.
func (q *Queue[T]) Remove(match func(T) bool) int {
	var n int
	q.future, n = filterOut(q.future, match)
	return n
}

// Purge drops matching elements from history and returns how many went.
func (q *Queue[T]) Purge(match func(T) bool) int {
	var n int
	q.history, n = filterOut(q.history, match)
	return n
}

// Empty clears future, and history too when withHistory is set.
func (q *Queue[T]) Empty(withHistory bool) {
	q.future = nil
	if withHistory {
		q.history = nil
	}
}

// Future returns a copy of the pending elements, next first.
func (q *Queue[T]) Future() []T {
	return append([]T(nil), q.future...)
}

// History returns a copy of the executed elements, oldest first.
func (q *Queue[T]) History() []T {
	return append([]T(nil), q.history...)
}

// Last returns the most recently executed element.
func (q *Queue[T]) Last() (T, bool) {
	var zero T
	if len(q.history) == 0 {
		return zero, false
	}
	return q.history[len(q.history)-1], true
}

// FutureLen returns the number of pending elements.
func (q *Queue[T]) FutureLen() int { return len(q.future) }

// HistoryLen returns the number of executed elements.
func (q *Queue[T]) HistoryLen() int { return len(q.history) }

// IsReady reports whether Do would return an element.
func (q *Queue[T]) IsReady() bool {
	return len(q.future) > 0
}

func filterOut[T any](items []T, match func(T) bool) ([]T, int) {
	kept := items[:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	var zero T
	for i := len(kept); i < len(items); i++ {
		items[i] = zero
	}
	return kept, removed
}
