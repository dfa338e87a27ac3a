package board

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml, true)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves for the side to
// move, including quiets. May leave the mover's own king in check; callers
// filter with IsLegal.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml, true)
	return ml
}

// GeneratePseudoLegalCapturesOnly generates pseudo-legal moves without
// quiets, for the quiescence search's capture-only frontier.
func (p *Position) GeneratePseudoLegalCapturesOnly() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml, false)
	return ml
}

// GenerateCaptures generates legal capture moves only.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml, false)
	return p.filterLegalMoves(ml)
}

// generateAllMoves generates pseudo-legal moves. When includeQuiets is
// false, only captures, capture-promotions, en passant, and push-promotions
// are produced (the quiescence search's frontier).
func (p *Position) generateAllMoves(ml *MoveList, includeQuiets bool) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	p.generatePawnMoves(ml, us, enemies, occupied, includeQuiets)

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		targets := KnightAttacks(from) & ^p.Occupied[us]
		if !includeQuiets {
			targets &= enemies
		}
		addPieceMoves(ml, from, targets, Knight, enemies)
	}

	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		targets := BishopAttacks(from, occupied) & ^p.Occupied[us]
		if !includeQuiets {
			targets &= enemies
		}
		addPieceMoves(ml, from, targets, Bishop, enemies)
	}

	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		targets := RookAttacks(from, occupied) & ^p.Occupied[us]
		if !includeQuiets {
			targets &= enemies
		}
		addPieceMoves(ml, from, targets, Rook, enemies)
	}

	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		targets := QueenAttacks(from, occupied) & ^p.Occupied[us]
		if !includeQuiets {
			targets &= enemies
		}
		addPieceMoves(ml, from, targets, Queen, enemies)
	}

	from := p.KingSquare[us]
	targets := KingAttacks(from) & ^p.Occupied[us]
	if !includeQuiets {
		targets &= enemies
	}
	addPieceMoves(ml, from, targets, King, enemies)

	if includeQuiets {
		p.generateCastlingMoves(ml, us)
	}
}

// addPieceMoves emits quiet/capture moves for a non-pawn piece given a
// target bitboard, splitting by whether the destination holds an enemy.
func addPieceMoves(ml *MoveList, from Square, targets Bitboard, pt PieceType, enemies Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		if enemies.IsSet(to) {
			ml.Add(NewCapture(from, to, pt))
		} else {
			ml.Add(NewMove(from, to, pt))
		}
	}
}

// generatePawnMoves generates pawn pushes, captures, promotions and en
// passant. When includeQuiets is false, only captures/EP/push-promotions
// are emitted.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard, includeQuiets bool) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	if includeQuiets {
		nonPromo := push1 & ^promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			from := Square(int(to) - pushDir)
			ml.Add(NewMove(from, to, Pawn))
		}

		for push2 != 0 {
			to := push2.PopLSB()
			from := Square(int(to) - 2*pushDir)
			ml.Add(NewDoublePawnPush(from, to))
		}
	}

	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewCapture(from, to, Pawn))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewCapture(from, to, Pawn))
	}

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(ml, from, to)
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addCapturePromotions(ml, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addCapturePromotions(ml, from, to)
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}
}

// addPromotions adds all four non-capture promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// addCapturePromotions adds all four capture-promotion moves.
func addCapturePromotions(ml *MoveList, from, to Square) {
	ml.Add(NewCapturePromotion(from, to, Queen))
	ml.Add(NewCapturePromotion(from, to, Rook))
	ml.Add(NewCapturePromotion(from, to, Bishop))
	ml.Add(NewCapturePromotion(from, to, Knight))
}

// generateCastlingMoves generates castling moves backed by live rook-square
// rights, checking the path is clear and the king does not pass through or
// land on an attacked square.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	if p.InCheck() {
		return
	}
	them := us.Other()
	ksq := p.KingSquare[us]
	rank := ksq.Rank()

	if p.Castling.CanCastle(us, KingSide) {
		f := NewSquare(5, rank)
		g := NewSquare(6, rank)
		if p.AllOccupied&(SquareBB(f)|SquareBB(g)) == 0 &&
			!p.IsSquareAttacked(ksq, them) && !p.IsSquareAttacked(f, them) && !p.IsSquareAttacked(g, them) {
			ml.Add(NewCastling(ksq, g, false))
		}
	}

	if p.Castling.CanCastle(us, QueenSide) {
		b := NewSquare(1, rank)
		c := NewSquare(2, rank)
		d := NewSquare(3, rank)
		if p.AllOccupied&(SquareBB(b)|SquareBB(c)|SquareBB(d)) == 0 &&
			!p.IsSquareAttacked(ksq, them) && !p.IsSquareAttacked(d, them) && !p.IsSquareAttacked(c, them) {
			ml.Add(NewCastling(ksq, c, true))
		}
	}
}

// filterLegalMoves filters out illegal moves (those that leave king in check).
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}

	return result
}

// IsLegal returns true if the move does not leave the mover's own king in
// check. King steps are checked directly against the attacker set (cheaper
// than a full clone); castling is already validated at generation time;
// everything else, en passant included, is applied to a lightweight VBoard
// copy of the occupancy and the king is tested for attack there.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if m.IsCastling() {
		return true
	}

	if from == ksq {
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}

	v := NewVBoard(p)
	v.ApplyMove(m, us)
	return !v.IsKingAttacked(ksq, them)
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
