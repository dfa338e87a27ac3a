package engine

import (
	"sync/atomic"
	"time"

	"github.com/marlowe-engine/mtcore/internal/board"
	"github.com/marlowe-engine/mtcore/internal/book"
)

// SearchInfo is one iterative-deepening progress report, surfaced to the
// UCI layer as an `info depth … score … nodes … pv …` line.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int
}

// SearchResult is the outcome of a completed search.
type SearchResult struct {
	Move  board.Move
	Score int
	Nodes uint64
}

// Engine owns the transposition table and the single search worker. One
// search runs at a time; there is no Lazy-SMP sharing of the TT across
// workers, since the search core here is single-threaded by design.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher

	reps *RepetitionStack
	tm   *TimeManager
	book *book.Book

	stopFlag atomic.Bool

	// OnInfo, if set, is called once per completed iterative-deepening
	// iteration.
	OnInfo func(SearchInfo)
}

// NewEngine creates an Engine with a transposition table sized ttSizeMB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
		tm:       NewTimeManager(),
	}
}

// SetHashSizeMB resizes the transposition table, discarding its contents.
func (e *Engine) SetHashSizeMB(mb int) {
	e.tt.Resize(mb)
}

// LoadBook loads a Polyglot opening book from filename. Once loaded, Search
// consults it for the root position before running negamax.
func (e *Engine) LoadBook(filename string) error {
	b, err := book.LoadPolyglot(filename)
	if err != nil {
		return err
	}
	e.book = b
	return nil
}

// SetPositionHistory seeds the repetition stack from the UCI root's move
// history (one hash per position visited since the last `position`
// command, including the current one).
func (e *Engine) SetPositionHistory(hashes []uint64) {
	if len(hashes) == 0 {
		e.reps = NewRepetitionStack(0)
		return
	}
	reps := &RepetitionStack{}
	for _, h := range hashes {
		reps.Push(h)
	}
	e.reps = reps
}

// Search runs a search to limits.Depth (or until a time limit or Stop
// fires) and returns the best move found. limits.Nodes is not enforced.
func (e *Engine) Search(pos *board.Position, limits UCILimits) board.Move {
	e.stopFlag.Store(false)

	if !limits.Infinite {
		if move, ok := e.book.Probe(pos); ok {
			return move
		}
	}

	if e.reps == nil || e.reps.Last() != pos.Hash {
		e.reps = NewRepetitionStack(pos.Hash)
	}

	e.tm.Init(limits, pos.SideToMove)

	start := time.Now()
	onInfo := func(info SearchInfo) {
		if e.OnInfo == nil {
			return
		}
		info.Time = time.Since(start)
		info.HashFull = e.tt.HashFull()
		e.OnInfo(info)
	}

	move, _ := e.searcher.Search(pos, e.reps, e.tm, &e.stopFlag, limits, onInfo)
	return move
}

// Stop signals the in-progress search to abandon its current iteration and
// return the last completed depth's result.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear resets the transposition table and repetition stack, as on
// `ucinewgame`.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.reps = nil
}

// Evaluate returns the static evaluation of pos from White's perspective.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// Perft counts leaf nodes at depth plies from pos, for correctness testing
// against the oracle counts. It is a plain pseudo-legal-filtered walk, not
// part of the search hot path.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// ScoreToString renders a centipawn/mate score the way UCI `info score`
// expects: "cp N" or "mate N".
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "mate " + itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := -(MateScore + score + 1) / 2
		return "mate " + itoa(mateIn)
	}
	return "cp " + itoa(score)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
