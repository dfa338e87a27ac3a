package engine

import "github.com/marlowe-engine/mtcore/internal/board"

// maxQuiescencePly caps the absolute ply (counted from the search root) at
// which quiescence still searches; it is checked alongside MaxPly.
const maxQuiescencePly = 255

// quiescence searches only captures (including capture-promotions and en
// passant) and push-promotions to stabilize the evaluation at the horizon before it is trusted
// by the main search. Stand-pat lets a side that has no good capture keep
// its static eval; MVV/LVA orders captures so the most promising ones are
// tried first.
func (s *Searcher) quiescence(node searchNode, ply, alpha, beta int) (int, bool) {
	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(node.pos), true
	}

	s.nodes++
	if s.nodes&2047 == 0 {
		if s.tm != nil && s.tm.HardStop() {
			return 0, false
		}
		if s.stopFlag != nil && s.stopFlag.Load() {
			return 0, false
		}
	}

	standPat := node.score.Tapered()
	if node.pos.SideToMove == board.Black {
		standPat = -standPat
	}

	if standPat >= beta {
		return beta, true
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := node.pos.GeneratePseudoLegalCapturesOnly()
	scores := s.mo.ScoreMoves(node.pos, moves, ply, board.NoMove, board.NoMove, board.NoMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		if !node.pos.IsLegal(m) {
			continue
		}

		childPos := node.pos.MakeMove(m)
		childScore := Update(node.score, node.pos, m)
		childNode := searchNode{pos: childPos, score: childScore}

		score, ok := s.quiescence(childNode, ply+1, -beta, -alpha)
		if !ok {
			return 0, false
		}
		score = -score

		if score >= beta {
			return beta, true
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha, true
}
