// Package packed implements the 32-byte training-data record used to
// serialize positions for self-play data generation: one little-endian
// fixed-width struct per sample, cheap to mmap and scan in bulk.
package packed

import (
	"encoding/binary"
	"fmt"

	"github.com/marlowe-engine/mtcore/internal/board"
)

// Size is the on-disk length of a packed record in bytes.
const Size = 32

// unmovedRook marks a rook nibble whose castling right is still live,
// distinct from a rook that has moved (ordinary PieceType Rook).
const unmovedRook = 6

// Record is the decoded form of a packed training sample.
type Record struct {
	Occupied board.Bitboard
	// Pieces holds, for each set bit of Occupied in lsb-first order, the
	// (Color, PieceType) pair plus whether that square is an unmoved
	// rook still carrying a castling right.
	Pieces      []RecordPiece
	SideToMove  board.Color
	EnPassant   board.Square
	HalfMove    uint8
	FullMove    uint16
	Eval        int16
	WDL         uint8
	Extra       uint8
}

// RecordPiece is one decoded occupied-square entry.
type RecordPiece struct {
	Square      board.Square
	Color       board.Color
	Type        board.PieceType
	UnmovedRook bool
}

// Pack encodes pos plus the out-of-band training fields (the full-move
// counter, the search's centipawn eval, and the game's win/draw/loss
// outcome from the side to move's perspective) into a 32-byte record.
func Pack(pos *board.Position, fullmove uint16, eval int16, wdl uint8, extra uint8) [Size]byte {
	var buf [Size]byte

	occupied := pos.AllOccupied
	binary.LittleEndian.PutUint64(buf[0:8], uint64(occupied))

	offset := 0
	occupied.ForEach(func(sq board.Square) {
		p := pos.PieceAt(sq)
		color := p.Color()
		ty := uint8(p.Type())
		if pos.Castling[color][board.QueenSide] == sq || pos.Castling[color][board.KingSide] == sq {
			ty = unmovedRook
		}
		nibble := uint8(color)<<3 | ty
		byteIdx := 8 + offset/2
		if offset%2 == 0 {
			buf[byteIdx] = nibble
		} else {
			buf[byteIdx] |= nibble << 4
		}
		offset++
	})

	stmEP := uint8(pos.EnPassant) & 0x7F
	if pos.SideToMove == board.Black {
		stmEP |= 0x80
	}
	buf[24] = stmEP
	buf[25] = uint8(pos.HalfMoveClock)
	binary.LittleEndian.PutUint16(buf[26:28], fullmove)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(eval))
	buf[30] = wdl
	buf[31] = extra

	return buf
}

// Unpack decodes a 32-byte record back into its constituent fields. It
// does not reconstruct a *board.Position directly — the record carries
// no castling-rights-to-corner-square mapping beyond "this rook hasn't
// moved", and no move history for repetition/Zobrist purposes — so
// callers that need a playable Position call Record.ToPosition.
func Unpack(data []byte) (Record, error) {
	if len(data) != Size {
		return Record{}, fmt.Errorf("packed: record must be %d bytes, got %d", Size, len(data))
	}

	occupied := board.Bitboard(binary.LittleEndian.Uint64(data[0:8]))

	var rec Record
	rec.Occupied = occupied
	rec.Pieces = make([]RecordPiece, 0, occupied.PopCount())

	offset := 0
	occupied.ForEach(func(sq board.Square) {
		byteIdx := 8 + offset/2
		var nibble uint8
		if offset%2 == 0 {
			nibble = data[byteIdx] & 0x0F
		} else {
			nibble = data[byteIdx] >> 4
		}
		offset++

		color := board.Color(nibble >> 3)
		ty := board.PieceType(nibble & 0x07)
		unmoved := ty == unmovedRook
		if unmoved {
			ty = board.Rook
		}
		rec.Pieces = append(rec.Pieces, RecordPiece{
			Square:      sq,
			Color:       color,
			Type:        ty,
			UnmovedRook: unmoved,
		})
	})

	stmEP := data[24]
	if stmEP&0x80 != 0 {
		rec.SideToMove = board.Black
	} else {
		rec.SideToMove = board.White
	}
	rec.EnPassant = board.Square(stmEP & 0x7F)
	rec.HalfMove = data[25]
	rec.FullMove = binary.LittleEndian.Uint16(data[26:28])
	rec.Eval = int16(binary.LittleEndian.Uint16(data[28:30]))
	rec.WDL = data[30]
	rec.Extra = data[31]

	return rec, nil
}

// ToPosition rebuilds a *board.Position from a decoded Record. Every
// unmoved-rook square becomes a castling right for its color: files e-h
// give the kingside right, files a-d the queenside right. The king's
// square is not consulted.
func (r Record) ToPosition() *board.Position {
	pos := &board.Position{Castling: board.NoCastlingRights}
	for _, rp := range r.Pieces {
		pos.Pieces[rp.Color][rp.Type] = pos.Pieces[rp.Color][rp.Type].Set(rp.Square)
		pos.Occupied[rp.Color] = pos.Occupied[rp.Color].Set(rp.Square)
		if rp.Type == board.King {
			pos.KingSquare[rp.Color] = rp.Square
		}
		if rp.UnmovedRook {
			side := board.QueenSide
			if rp.Square.File() > 3 {
				side = board.KingSide
			}
			pos.Castling[rp.Color][side] = rp.Square
		}
	}
	pos.AllOccupied = pos.Occupied[board.White] | pos.Occupied[board.Black]
	pos.SideToMove = r.SideToMove
	pos.EnPassant = r.EnPassant
	pos.HalfMoveClock = int(r.HalfMove)
	pos.FullMoveNumber = int(r.FullMove)
	pos.UpdateCheckers()
	pos.Hash = pos.ComputeHash()
	pos.PawnKey = pos.ComputePawnKey()
	return pos
}
