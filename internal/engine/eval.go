// Package engine implements the chess search engine: evaluation, the
// transposition table, move ordering, and the negamax/PVS search itself.
package engine

import "github.com/marlowe-engine/mtcore/internal/board"

// Material values in centipawns, indexed by board.PieceType (King's value
// is nominal — it never enters material counting, only PieceValue lookups
// guarded by pt < King do).
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Phase weight per piece type, used to taper between midgame and endgame
// piece-square tables. Matches the classic Pawn=0,N=1,B=1,R=2,Q=4 scheme;
// the sum is clamped to maxPhase.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

// Piece-square tables, values from White's perspective (mirrored via
// Square.Mirror for Black). Only the king has a separate midgame/endgame
// table — every other piece's table is used for both phases.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var nonKingPST = [5][64]int{pawnPST, knightPST, bishopPST, rookPST, queenPST}

// pstSquare mirrors a square vertically for Black so every table is read
// from the mover's own perspective.
func pstSquare(sq board.Square, c board.Color) board.Square {
	if c == board.White {
		return sq
	}
	return sq.Mirror()
}

// TaperedScore holds the material+PST evaluation from White's perspective,
// split into midgame and endgame terms plus the game-phase weight used to
// interpolate between them. Search maintains this incrementally via
// Update; Evaluate recomputes it from scratch and the two must always
// agree.
type TaperedScore struct {
	MG    int
	EG    int
	Phase int
}

// Tapered interpolates MG/EG by Phase (clamped to maxPhase) and returns the
// score from White's perspective.
func (t TaperedScore) Tapered() int {
	phase := t.Phase
	if phase > maxPhase {
		phase = maxPhase
	}
	if phase < 0 {
		phase = 0
	}
	return (t.MG*phase + t.EG*(maxPhase-phase)) / maxPhase
}

// FromScratch computes the tapered evaluation terms for pos directly from
// its piece bitboards, with no dependency on prior search state.
func FromScratch(pos *board.Position) TaperedScore {
	var ts TaperedScore

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				psq := pstSquare(sq, c)

				if pt == board.King {
					ts.MG += sign * kingMidgamePST[psq]
					ts.EG += sign * kingEndgamePST[psq]
					continue
				}

				ts.MG += sign * (pieceValues[pt] + nonKingPST[pt][psq])
				ts.EG += sign * (pieceValues[pt] + nonKingPST[pt][psq])
				ts.Phase += phaseWeight[pt]
			}
		}
	}

	return ts
}

// Evaluate returns the static evaluation of pos from White's perspective.
func Evaluate(pos *board.Position) int {
	return FromScratch(pos).Tapered()
}

// Update returns the tapered score for the position obtained by playing m
// in pos, given pos's own tapered score. It must produce a result
// identical to calling FromScratch on the resulting position — search
// relies on that equivalence to avoid a full eval recompute at every node.
func Update(prev TaperedScore, pos *board.Position, m board.Move) TaperedScore {
	us := pos.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := m.Piece()

	ts := prev
	signUs := 1
	if us == board.Black {
		signUs = -1
	}
	signThem := -signUs

	removeNonKing := func(pt board.PieceType, sq board.Square) {
		psq := pstSquare(sq, them)
		ts.MG -= signThem * (pieceValues[pt] + nonKingPST[pt][psq])
		ts.EG -= signThem * (pieceValues[pt] + nonKingPST[pt][psq])
		ts.Phase -= phaseWeight[pt]
	}

	if m.IsEnPassant() {
		var capSq board.Square
		if us == board.White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		removeNonKing(board.Pawn, capSq)
	} else if m.Flag()&0x4 != 0 && !m.IsCastling() {
		captured := pos.PieceAt(to)
		if captured != board.NoPiece && captured.Type() != board.King {
			removeNonKing(captured.Type(), to)
		}
	}

	if piece == board.King {
		fromSq, toSq := pstSquare(from, us), pstSquare(to, us)
		ts.MG += signUs * (kingMidgamePST[toSq] - kingMidgamePST[fromSq])
		ts.EG += signUs * (kingEndgamePST[toSq] - kingEndgamePST[fromSq])
	} else if !m.IsPromotion() {
		fromSq, toSq := pstSquare(from, us), pstSquare(to, us)
		ts.MG += signUs * (nonKingPST[piece][toSq] - nonKingPST[piece][fromSq])
		ts.EG += signUs * (nonKingPST[piece][toSq] - nonKingPST[piece][fromSq])
	}

	if m.IsPromotion() {
		promo := m.Promotion()
		fromSq := pstSquare(from, us)
		toSq := pstSquare(to, us)
		ts.MG -= signUs * (pieceValues[board.Pawn] + nonKingPST[board.Pawn][fromSq])
		ts.EG -= signUs * (pieceValues[board.Pawn] + nonKingPST[board.Pawn][fromSq])
		ts.Phase -= phaseWeight[board.Pawn]
		ts.MG += signUs * (pieceValues[promo] + nonKingPST[promo][toSq])
		ts.EG += signUs * (pieceValues[promo] + nonKingPST[promo][toSq])
		ts.Phase += phaseWeight[promo]
	}

	if m.IsCastling() {
		rank := from.Rank()
		var rookFrom, rookTo board.Square
		if m.Flag() == board.FlagCastleRight {
			rookFrom = board.NewSquare(7, rank)
			rookTo = board.NewSquare(5, rank)
		} else {
			rookFrom = board.NewSquare(0, rank)
			rookTo = board.NewSquare(3, rank)
		}
		rFromSq, rToSq := pstSquare(rookFrom, us), pstSquare(rookTo, us)
		ts.MG += signUs * (rookPST[rToSq] - rookPST[rFromSq])
		ts.EG += signUs * (rookPST[rToSq] - rookPST[rFromSq])
	}

	return ts
}

// IsEndgame reports whether the position's phase has tapered far enough
// toward the endgame table to be treated as an endgame for heuristics that
// branch on game stage (e.g. king activity in search extensions).
func IsEndgame(pos *board.Position) bool {
	return FromScratch(pos).Phase <= 6
}

// Material returns the material balance (positive favors white), ignoring
// all positional PST terms.
func Material(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += pos.Pieces[board.White][pt].PopCount() * pieceValues[pt]
		score -= pos.Pieces[board.Black][pt].PopCount() * pieceValues[pt]
	}
	return score
}
