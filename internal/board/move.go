package board

import "fmt"

// Move encodes a chess move in 19 significant bits of a uint32:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: flags
// bits 16-18: moving piece type
type Move uint32

// Move flags. The high bit of a flag marks a promotion, the next bit a
// capture; the low two bits of a promotion flag select the promoted
// piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen).
const (
	FlagQuiet      uint32 = 0x0
	FlagDoublePawn uint32 = 0x1
	FlagCastleLeft uint32 = 0x2 // queenside
	FlagCastleRight uint32 = 0x3 // kingside
	flagCapBit     uint32 = 0x4
	FlagCapture    uint32 = 0x4
	FlagEnPassant  uint32 = 0x5 // FlagCapture | 0x1
	flagPromoBit   uint32 = 0x8
	FlagPromoN     uint32 = 0x8
	FlagPromoB     uint32 = 0x9
	FlagPromoR     uint32 = 0xA
	FlagPromoQ     uint32 = 0xB
	FlagCapPromoN  uint32 = 0xC
	FlagCapPromoB  uint32 = 0xD
	FlagCapPromoR  uint32 = 0xE
	FlagCapPromoQ  uint32 = 0xF
)

const (
	shiftTo    = 6
	shiftFlags = 12
	shiftPiece = 16

	maskSquare = 0x3F
	maskFlags  = 0xF
	maskPiece  = 0x7
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// promoFlagBits maps a promotion PieceType to its low two flag bits.
func promoFlagBits(promo PieceType) uint32 {
	return uint32(promo - Knight)
}

func pieceFromPromoFlagBits(bits uint32) PieceType {
	return PieceType(bits&0x3) + Knight
}

func newMoveRaw(from, to Square, flags uint32, piece PieceType) Move {
	return Move(uint32(from) | uint32(to)<<shiftTo | (flags&maskFlags)<<shiftFlags | uint32(piece)<<shiftPiece)
}

// NewMove creates a quiet (non-capture, non-promotion) move.
func NewMove(from, to Square, piece PieceType) Move {
	return newMoveRaw(from, to, FlagQuiet, piece)
}

// NewDoublePawnPush creates a two-square pawn advance.
func NewDoublePawnPush(from, to Square) Move {
	return newMoveRaw(from, to, FlagDoublePawn, Pawn)
}

// NewCapture creates a non-promotion capture move.
func NewCapture(from, to Square, piece PieceType) Move {
	return newMoveRaw(from, to, FlagCapture, piece)
}

// NewPromotion creates a non-capture promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return newMoveRaw(from, to, flagPromoBit|promoFlagBits(promo), Pawn)
}

// NewCapturePromotion creates a capture-promotion move.
func NewCapturePromotion(from, to Square, promo PieceType) Move {
	return newMoveRaw(from, to, flagPromoBit|flagCapBit|promoFlagBits(promo), Pawn)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return newMoveRaw(from, to, FlagEnPassant, Pawn)
}

// NewCastling creates a castling move (king's movement); left is queenside.
func NewCastling(from, to Square, queenSide bool) Move {
	if queenSide {
		return newMoveRaw(from, to, FlagCastleLeft, King)
	}
	return newMoveRaw(from, to, FlagCastleRight, King)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(uint32(m) & maskSquare)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((uint32(m) >> shiftTo) & maskSquare)
}

// Flag returns the 4-bit move flag.
func (m Move) Flag() uint32 {
	return (uint32(m) >> shiftFlags) & maskFlags
}

// Piece returns the moving piece's type (pre-promotion, i.e. Pawn for promotions).
func (m Move) Piece() PieceType {
	return PieceType((uint32(m) >> shiftPiece) & maskPiece)
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m Move) Promotion() PieceType {
	return pieceFromPromoFlagBits(m.Flag())
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flag()&flagPromoBit != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	f := m.Flag()
	return f == FlagCastleLeft || f == FlagCastleRight
}

// IsQueenSideCastle returns true if this is a queenside castling move.
func (m Move) IsQueenSideCastle() bool {
	return m.Flag() == FlagCastleLeft
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePawnPush returns true if this is a two-square pawn advance.
func (m Move) IsDoublePawnPush() bool {
	return m.Flag() == FlagDoublePawn
}

// IsCapture returns true if the move's flag marks it as a capture.
// Note this is a property of the move encoding, not a position lookup.
func (m Move) IsCapture() bool {
	return m.Flag()&flagCapBit != 0 && !m.IsCastling()
}

// IsQuiet returns true if this is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string against a position, to recover
// the flags and moving-piece type the compact encoding needs.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()
	isCapture := !pos.IsEmpty(to)

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		if isCapture {
			return NewCapturePromotion(from, to, promo), nil
		}
		return NewPromotion(from, to, promo), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to, to < from), nil
	}

	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		return NewEnPassant(from, to), nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return NewDoublePawnPush(from, to), nil
	}

	if isCapture {
		return NewCapture(from, to, pt), nil
	}
	return NewMove(from, to, pt), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
