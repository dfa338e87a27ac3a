package packed

import (
	"testing"

	"github.com/marlowe-engine/mtcore/internal/board"
)

func TestPackUnpackStartingPosition(t *testing.T) {
	pos := board.NewPosition()

	buf := Pack(pos, 1, 37, 2, 0)
	if len(buf) != Size {
		t.Fatalf("Pack produced %d bytes, want %d", len(buf), Size)
	}

	rec, err := Unpack(buf[:])
	if err != nil {
		t.Fatalf("Unpack failed: %v", err)
	}

	if rec.Occupied != pos.AllOccupied {
		t.Errorf("Occupied = %#x, want %#x", uint64(rec.Occupied), uint64(pos.AllOccupied))
	}
	if rec.SideToMove != pos.SideToMove {
		t.Errorf("SideToMove = %v, want %v", rec.SideToMove, pos.SideToMove)
	}
	if rec.EnPassant != pos.EnPassant {
		t.Errorf("EnPassant = %v, want %v", rec.EnPassant, pos.EnPassant)
	}
	if rec.FullMove != 1 {
		t.Errorf("FullMove = %d, want 1", rec.FullMove)
	}
	if rec.Eval != 37 {
		t.Errorf("Eval = %d, want 37", rec.Eval)
	}
	if rec.WDL != 2 {
		t.Errorf("WDL = %d, want 2", rec.WDL)
	}

	if len(rec.Pieces) != pos.AllOccupied.PopCount() {
		t.Fatalf("got %d decoded pieces, want %d", len(rec.Pieces), pos.AllOccupied.PopCount())
	}

	for _, rp := range rec.Pieces {
		want := pos.PieceAt(rp.Square)
		if rp.Type != want.Type() || rp.Color != want.Color() {
			t.Errorf("square %s: got %v/%v, want %v/%v", rp.Square, rp.Color, rp.Type, want.Color(), want.Type())
		}
	}

	// All four rooks on the starting squares still carry castling rights.
	unmovedCount := 0
	for _, rp := range rec.Pieces {
		if rp.UnmovedRook {
			unmovedCount++
		}
	}
	if unmovedCount != 4 {
		t.Errorf("expected 4 unmoved rooks, got %d", unmovedCount)
	}
}

func TestPackUnpackToPositionRoundTrip(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	buf := Pack(pos, 7, -120, 0, 0)
	rec, err := Unpack(buf[:])
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	rebuilt := rec.ToPosition()

	if rebuilt.AllOccupied != pos.AllOccupied {
		t.Errorf("AllOccupied mismatch after round-trip")
	}
	if rebuilt.SideToMove != pos.SideToMove {
		t.Errorf("SideToMove mismatch after round-trip")
	}
	for c := board.White; c <= board.Black; c++ {
		for side := board.QueenSide; side <= board.KingSide; side++ {
			if rebuilt.Castling[c][side] != pos.Castling[c][side] {
				t.Errorf("Castling[%v][%v] = %v, want %v", c, side, rebuilt.Castling[c][side], pos.Castling[c][side])
			}
		}
	}
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			if rebuilt.Pieces[c][pt] != pos.Pieces[c][pt] {
				t.Errorf("Pieces[%v][%v] mismatch after round-trip", c, pt)
			}
		}
	}
}

func TestUnpackRejectsWrongSize(t *testing.T) {
	if _, err := Unpack(make([]byte, Size-1)); err == nil {
		t.Error("expected an error for a short record")
	}
}
