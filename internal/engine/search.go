package engine

import (
	"math"
	"sync/atomic"

	"github.com/marlowe-engine/mtcore/internal/board"
)

// Search-wide constants.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 256
)

// Pruning/extension tuning constants. Names mirror the ones the heuristics
// are known by; values are the conventional starting points for each
// heuristic and are not claimed to be locally optimal.
const (
	NMPReduction = 3
	NMPMinDepth  = 3

	RFPDepth  = 8
	RFPMargin = 75

	FPDepth = 8
	FPBase  = 100
	FPMul   = 75

	LMPDepth = 8
	LMPBase  = 3
	LMPMul   = 2
	LMPPow   = 2

	LMRMinMoveIndex = 4
	LMRBase         = 0.75
	LMRDiv          = 2.25

	AspDepth      = 5
	AspWindow     = 25
	AspWidenScale = 2
)

// PVTable stores the principal variation line found at each ply.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs iterative-deepening negamax/PVS search from a root
// position, maintaining a transposition table, move orderer, and
// repetition stack across iterations.
type Searcher struct {
	root *board.Position
	tt   *TranspositionTable
	mo   *MoveOrderer
	reps *RepetitionStack
	tm   *TimeManager

	nodes    uint64
	stopFlag *atomic.Bool

	pv PVTable

	rootScore TaperedScore

	onInfo func(SearchInfo)
}

// NewSearcher creates a new searcher bound to tt, with its own move
// orderer. reps and tm are supplied per-search via Search since they
// depend on the root position and the active time control.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt: tt,
		mo: NewMoveOrderer(),
	}
}

// Nodes returns the number of nodes searched in the most recent call to
// Search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// GetPV returns the principal variation from the most recent search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// searchNode carries the per-node state threaded through negamax that
// does not belong on Searcher itself: the position at this node and its
// incremental eval. The one/two-ply move context is passed to negamax as
// separate arguments.
type searchNode struct {
	pos   *board.Position
	score TaperedScore
}

// Search runs iterative deepening from depth 1 up to limits.Depth (or
// MaxPly-1 if unbounded), using aspiration windows once the depth is deep
// enough to make a narrow window worthwhile. It returns the best move and
// score found by the last iteration fully completed before a stop fired.
func (s *Searcher) Search(root *board.Position, reps *RepetitionStack, tm *TimeManager, stopFlag *atomic.Bool, limits UCILimits, onInfo func(SearchInfo)) (board.Move, int) {
	s.root = root
	s.reps = reps
	s.tm = tm
	s.stopFlag = stopFlag
	s.onInfo = onInfo
	s.nodes = 0
	s.mo.Clear()
	s.tt.NewSearch()

	s.rootScore = FromScratch(root)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth >= MaxPly {
		maxDepth = MaxPly - 1
	}

	var bestMove board.Move
	var bestScore int
	alpha, beta := -Infinity, Infinity

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && s.tm != nil && s.tm.SoftStop() {
			break
		}

		if depth >= AspDepth && depth > 1 {
			window := AspWindow
			alpha = bestScore - window
			beta = bestScore + window
		} else {
			alpha, beta = -Infinity, Infinity
		}

		var score int
		var ok bool
		for {
			score, ok = s.negamaxRoot(root, alpha, beta, depth)
			if !ok {
				break
			}
			if score <= alpha {
				alpha -= (beta - alpha) * AspWidenScale
				if alpha < -Infinity {
					alpha = -Infinity
				}
				continue
			}
			if score >= beta {
				beta += (beta - alpha) * AspWidenScale
				if beta > Infinity {
					beta = Infinity
				}
				continue
			}
			break
		}

		if !ok {
			break
		}

		bestScore = score
		if s.pv.length[0] > 0 {
			bestMove = s.pv.moves[0][0]
		}

		if s.onInfo != nil {
			s.onInfo(SearchInfo{
				Depth: depth,
				Score: bestScore,
				Nodes: s.nodes,
				PV:    s.GetPV(),
			})
		}
	}

	return bestMove, bestScore
}

// negamaxRoot is negamax's ply-0 entry point. During the depth-1 iteration
// the ply-0 node skips the stop check; quiescence nodes below it still
// check the stop.
func (s *Searcher) negamaxRoot(pos *board.Position, alpha, beta, depth int) (int, bool) {
	node := searchNode{pos: pos, score: s.rootScore}
	return s.negamax(node, alpha, beta, 0, depth, board.NoMove, board.NoMove, false)
}

// negamax implements the core search: check extension, TT probe,
// null-move pruning, reverse futility pruning, move generation and
// picking with late-move pruning/reduction and futility pruning, PVS
// re-search, and TT store. Returns (score, ok); ok is false when the hard
// stop fired before a result could be produced. The ply-0 node of the
// depth-1 iteration does not check the stop.
func (s *Searcher) negamax(node searchNode, alpha, beta, ply, depth int, prevMove, prevPrevMove board.Move, inNullMove bool) (int, bool) {
	pos := node.pos
	isPV := beta-alpha > 1
	inCheck := pos.InCheck()

	// 1. Check extension.
	if inCheck && depth < 3 {
		depth++
	}

	s.pv.length[ply] = ply

	// 2. Leaf: drop to quiescence.
	if depth <= 0 {
		return s.quiescence(node, ply, alpha, beta)
	}

	if ply > 0 && s.reps.IsDraw(pos.HalfMoveClock) {
		return 0, true
	}

	// 3. TT probe.
	var ttMove board.Move
	ttEntry, found := s.tt.Probe(pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if int(ttEntry.Depth) >= depth && !isPV {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score, true
			case TTLowerBound:
				if score >= beta {
					return score, true
				}
			case TTUpperBound:
				if score <= alpha {
					return score, true
				}
			}
		}
	}

	staticEval := node.score.Tapered()
	if pos.SideToMove == board.Black {
		staticEval = -staticEval
	}

	// 4. Null-move pruning.
	if !isPV && !inCheck && !inNullMove && ply > 0 &&
		depth >= NMPMinDepth && staticEval >= beta && pos.HasNonPawnMaterial() {
		childPos := pos.MakeNullMove()
		s.reps.Push(childPos.Hash)
		childNode := searchNode{pos: childPos, score: node.score}
		score, ok := s.negamax(childNode, -beta, -beta+1, ply+1, depth-NMPReduction, board.NoMove, prevMove, true)
		s.reps.Pop()
		if !ok {
			return 0, false
		}
		if -score >= beta {
			return beta, true
		}
	}

	// 5. Reverse futility pruning.
	if !isPV && !inCheck && depth <= RFPDepth && staticEval-RFPMargin*depth > beta {
		return staticEval, true
	}

	// 6. Generate pseudo-legal moves.
	moves := pos.GeneratePseudoLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply, true
		}
		return 0, true
	}

	scores := s.mo.ScoreMoves(pos, moves, ply, ttMove, prevMove, prevPrevMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	legalCount := 0
	skipQuiets := false
	haveNonMatedBest := false

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		isQuiet := m.IsQuiet()
		isKiller := m == s.mo.killers[ply][0] || m == s.mo.killers[ply][1]

		if skipQuiets && isQuiet && !isKiller {
			continue
		}

		if !pos.IsLegal(m) {
			continue
		}
		legalCount++

		// Hard-stop check, skipped at ply 0 of the depth-1 iteration.
		s.nodes++
		if s.nodes&2047 == 0 && !(ply == 0 && depth == 1) {
			if s.tm != nil && s.tm.HardStop() {
				return 0, false
			}
			if s.stopFlag != nil && s.stopFlag.Load() {
				return 0, false
			}
		}

		// Decide skip_quiets for subsequent moves (futility pruning).
		if isQuiet && depth <= FPDepth && haveNonMatedBest &&
			staticEval+FPBase+FPMul*depth <= alpha {
			skipQuiets = true
		}
		// LMP: once we've tried enough moves at shallow depth, stop
		// considering further quiets.
		if !isPV && !inCheck && isQuiet && depth <= LMPDepth {
			threshold := LMPBase + LMPMul*ipow(depth, LMPPow)
			if legalCount >= threshold {
				skipQuiets = true
			}
		}

		childPos := pos.MakeMove(m)
		childScore := Update(node.score, pos, m)
		s.reps.Push(childPos.Hash)

		if s.reps.IsDraw(childPos.HalfMoveClock) {
			s.reps.Pop()
			score := 0
			if score > bestScore {
				bestScore = score
				bestMove = m
				haveNonMatedBest = true
			}
			continue
		}

		childNode := searchNode{pos: childPos, score: childScore}

		var score int
		var ok bool

		if legalCount == 1 {
			score, ok = s.negamax(childNode, -beta, -alpha, ply+1, depth-1, m, prevMove, false)
			score = -score
		} else {
			reduced := depth - 1
			doLMR := isQuiet && !isPV && legalCount >= LMRMinMoveIndex && depth > 1
			if doLMR {
				r := lmrReduction(depth, legalCount)
				reduced = depth - 1 - r
				if reduced < 0 {
					reduced = 0
				}
			}

			score, ok = s.negamax(childNode, -alpha-1, -alpha, ply+1, reduced, m, prevMove, false)
			score = -score

			if ok && doLMR && score > alpha {
				score, ok = s.negamax(childNode, -beta, -alpha, ply+1, depth-1, m, prevMove, false)
				score = -score
			} else if ok && !doLMR && score > alpha && score < beta {
				score, ok = s.negamax(childNode, -beta, -alpha, ply+1, depth-1, m, prevMove, false)
				score = -score
			}
		}

		s.reps.Pop()

		if !ok {
			return 0, false
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			haveNonMatedBest = bestScore > -MateScore+MaxPly

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = m
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)

			if isQuiet {
				s.mo.UpdateKillers(m, ply)
				s.mo.UpdateHistory(pos, m, depth, true)
				s.mo.UpdateContinuationHistory(pos.SideToMove, 0, prevMove, m, depth, true)
				s.mo.UpdateContinuationHistory(pos.SideToMove, 1, prevPrevMove, m, depth, true)
			}

			return score, true
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MateScore + ply, true
		}
		return 0, true
	}

	s.tt.Store(pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore, true
}

// lmrReduction computes the late-move reduction amount, clamped to
// [1, depth-1].
func lmrReduction(depth, moveIndex int) int {
	r := LMRBase + math.Log(float64(depth))*math.Log(float64(moveIndex))/LMRDiv
	ri := int(r)
	if ri < 1 {
		ri = 1
	}
	if ri > depth-1 {
		ri = depth - 1
	}
	if ri < 0 {
		ri = 0
	}
	return ri
}

func ipow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
