package engine

import (
	"github.com/marlowe-engine/mtcore/internal/board"
)

// Move ordering priorities.
const (
	TTMoveScore     = 10000000 // TT move gets highest priority
	GoodCaptureBase = 1000000  // Base score for good captures
	KillerScore1    = 900000   // First killer move
	KillerScore2    = 800000   // Second killer move
)

// History and continuation-history update constants: a cutoff at depth d
// bumps the relevant table by depth*HistMul + HistAdd.
const (
	HistMul     = 32
	HistAdd     = 64
	HistoryMax  = 1 << 14
	ContHistMul = 24
	ContHistAdd = 48
	ContHistMax = 1 << 14
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores.
// Score = victimValue*10 - attackerValue, loosely.
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// contHistSlot identifies one previous move for continuation-history
// indexing: the piece that moved and the square it moved to. A NULL move
// (from the null-move-pruning path) is passed down as board.NoMove and has
// no slot: ScoreMoves and UpdateContinuationHistory skip that lag.
type contHistSlot struct {
	piece board.PieceType
	sq    board.Square
}

// MoveOrderer holds the per-search move ordering state: killer moves,
// the quiet-move history table, and the one-ply/two-ply continuation
// history tables.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move

	// history[color][pieceType][toSquare]
	history [2][6][64]int

	// contHist[color][lag][prevPiece][prevTo][piece][to], lag 0 = one ply
	// back, lag 1 = two plies back.
	contHist [2][2][6][64][6][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers for a new search and ages the history tables rather
// than zeroing them, so useful signal from prior searches decays slowly.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}

	for c := range mo.history {
		for pt := range mo.history[c] {
			for sq := range mo.history[c][pt] {
				mo.history[c][pt][sq] /= 2
			}
		}
	}

	for c := range mo.contHist {
		for lag := range mo.contHist[c] {
			for pp := range mo.contHist[c][lag] {
				for psq := range mo.contHist[c][lag][pp] {
					for p := range mo.contHist[c][lag][pp][psq] {
						for sq := range mo.contHist[c][lag][pp][psq][p] {
							mo.contHist[c][lag][pp][psq][p][sq] /= 2
						}
					}
				}
			}
		}
	}
}

// ScoreMoves assigns ordering scores to a pseudo-legal move list, folding
// in the one- and two-ply continuation history for quiet moves via prev1
// and prev2 (either may be board.NoMove if unavailable, e.g. near the
// root).
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove, prev1, prev2 board.Move) []int {
	scores := make([]int, moves.Len())
	us := pos.SideToMove

	var slot1, slot2 contHistSlot
	have1, have2 := false, false
	if prev1 != board.NoMove {
		slot1 = contHistSlot{prev1.Piece(), prev1.To()}
		have1 = true
	}
	if prev2 != board.NoMove {
		slot2 = contHistSlot{prev2.Piece(), prev2.To()}
		have2 = true
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		scores[i] = mo.scoreMove(pos, m, ply, ttMove)

		if m.IsQuiet() || (m.IsPromotion() && !m.IsCapture()) {
			if have1 {
				scores[i] += mo.contHist[us][0][slot1.piece][slot1.sq][m.Piece()][m.To()] / 2
			}
			if have2 {
				scores[i] += mo.contHist[us][1][slot2.piece][slot2.sq][m.Piece()][m.To()] / 4
			}
		}
	}

	return scores
}

// scoreMove returns the ordering score for a single move: TT hint first,
// then MVV/LVA captures and capture-promotions, then killers, then
// non-capture promotions, then the quiet-move history table. En passant
// scores 0.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture() {
		attacker := m.Piece()
		var victim board.PieceType
		if m.IsEnPassant() {
			return 0
		} else {
			capturedPiece := pos.PieceAt(m.To())
			if capturedPiece == board.NoPiece {
				return GoodCaptureBase
			}
			victim = capturedPiece.Type()
		}
		if victim >= board.King || attacker > board.King {
			return GoodCaptureBase
		}

		score := GoodCaptureBase + mvvLva[victim][attacker]*1000
		if pieceValues[attacker] < pieceValues[victim] {
			score += 10000
		}
		if m.IsPromotion() {
			score += int(m.Promotion()) * 100
		}
		return score
	}

	if m.IsPromotion() {
		return KillerScore2 - 100000 + int(m.Promotion())*100
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	return mo.history[pos.SideToMove][m.Piece()][m.To()]
}

// SortMoves sorts moves by score, descending, via selection sort — move
// lists are small (well under a hundred entries) so this beats the
// constant overhead of a general-purpose sort.
func SortMoves(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// PickMove selects the best-scoring remaining move at or after index and
// swaps it into place, enabling lazy selection-sort-as-you-go iteration.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet beta-cutoff move at ply, keeping the two
// most recent distinct killers.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory bumps (or penalizes) the quiet-move history score for a
// move that caused, or failed to cause, a beta cutoff at depth.
func (mo *MoveOrderer) UpdateHistory(pos *board.Position, m board.Move, depth int, isGood bool) {
	us := pos.SideToMove
	pt := m.Piece()
	to := m.To()
	bonus := depth*HistMul + HistAdd

	if isGood {
		mo.history[us][pt][to] += bonus
		if mo.history[us][pt][to] > HistoryMax {
			for c := range mo.history {
				for p := range mo.history[c] {
					for sq := range mo.history[c][p] {
						mo.history[c][p][sq] /= 2
					}
				}
			}
		}
	} else {
		mo.history[us][pt][to] -= bonus
		if mo.history[us][pt][to] < -HistoryMax {
			mo.history[us][pt][to] = -HistoryMax
		}
	}
}

// UpdateContinuationHistory bumps (or penalizes) the continuation-history
// entry linking prev (one or two plies back, lag 0 or 1) to m.
func (mo *MoveOrderer) UpdateContinuationHistory(us board.Color, lag int, prev, m board.Move, depth int, isGood bool) {
	if prev == board.NoMove {
		return
	}
	pp, psq := prev.Piece(), prev.To()
	p, sq := m.Piece(), m.To()
	bonus := depth*ContHistMul + ContHistAdd

	if isGood {
		mo.contHist[us][lag][pp][psq][p][sq] += bonus
		if mo.contHist[us][lag][pp][psq][p][sq] > ContHistMax {
			mo.scaleContHist()
		}
	} else {
		mo.contHist[us][lag][pp][psq][p][sq] -= bonus
		if mo.contHist[us][lag][pp][psq][p][sq] < -ContHistMax {
			mo.contHist[us][lag][pp][psq][p][sq] = -ContHistMax
		}
	}
}

func (mo *MoveOrderer) scaleContHist() {
	for c := range mo.contHist {
		for lag := range mo.contHist[c] {
			for pp := range mo.contHist[c][lag] {
				for psq := range mo.contHist[c][lag][pp] {
					for p := range mo.contHist[c][lag][pp][psq] {
						for sq := range mo.contHist[c][lag][pp][psq][p] {
							mo.contHist[c][lag][pp][psq][p][sq] /= 2
						}
					}
				}
			}
		}
	}
}
