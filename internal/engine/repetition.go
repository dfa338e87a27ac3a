package engine

// RepetitionStack is an append-only sequence of Zobrist hashes for the
// positions visited since the root, used to detect threefold repetition
// during search. The UCI root rebuilds it from scratch on every
// `position` command; inside search it is pushed and popped around each
// recursive call.
type RepetitionStack struct {
	hashes []uint64
}

// NewRepetitionStack seeds a stack with the root position's hash.
func NewRepetitionStack(rootHash uint64) *RepetitionStack {
	return &RepetitionStack{hashes: []uint64{rootHash}}
}

// Push records a position reached by make-move.
func (r *RepetitionStack) Push(hash uint64) {
	r.hashes = append(r.hashes, hash)
}

// Pop removes the most recently pushed hash, undoing a Push.
func (r *RepetitionStack) Pop() {
	r.hashes = r.hashes[:len(r.hashes)-1]
}

// Len returns the number of hashes currently on the stack.
func (r *RepetitionStack) Len() int {
	return len(r.hashes)
}

// Last returns the current position's hash (the most recently pushed).
func (r *RepetitionStack) Last() uint64 {
	return r.hashes[len(r.hashes)-1]
}

// IsRepetitionDraw reports whether the last entry has occurred at least
// twice more earlier in the stack — three occurrences total, which is
// threefold repetition. halfmoveClock bounds how far back a capture or
// pawn move lets the search look, though this implementation keeps the
// full stack and always scans its entirety: positions before the last
// irreversible move cannot equal the current hash (the irreversible move
// changed the position), so scanning further back is harmless.
func (r *RepetitionStack) IsRepetitionDraw() bool {
	if len(r.hashes) < 5 {
		return false
	}
	target := r.Last()
	count := 0
	for i := len(r.hashes) - 2; i >= 0; i-- {
		if r.hashes[i] == target {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports the draw condition used by search: fifty-move rule via
// halfmoveClock, or threefold repetition via the stack.
func (r *RepetitionStack) IsDraw(halfmoveClock int) bool {
	if halfmoveClock >= 100 {
		return true
	}
	return r.IsRepetitionDraw()
}
