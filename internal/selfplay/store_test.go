package selfplay

import (
	"testing"

	"github.com/marlowe-engine/mtcore/internal/board"
	"github.com/marlowe-engine/mtcore/internal/packed"
)

func TestStorePutAndScan(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	pos := board.NewPosition()
	want := [][32]byte{
		packed.Pack(pos, 1, 10, 2, 0),
		packed.Pack(pos, 2, -30, 0, 0),
		packed.Pack(pos, 3, 0, 1, 0),
	}

	for _, rec := range want {
		if err := store.Put(rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != uint64(len(want)) {
		t.Errorf("Count() = %d, want %d", count, len(want))
	}

	var fullMoves []uint16
	err = store.Scan(func(rec packed.Record) error {
		fullMoves = append(fullMoves, rec.FullMove)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(fullMoves) != len(want) {
		t.Fatalf("scanned %d records, want %d", len(fullMoves), len(want))
	}
	for i, fm := range fullMoves {
		if int(fm) != i+1 {
			t.Errorf("record %d: FullMove = %d, want %d (insertion order)", i, fm, i+1)
		}
	}
}

func TestStorePutBatch(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	pos := board.NewPosition()
	batch := [][32]byte{
		packed.Pack(pos, 1, 0, 1, 0),
		packed.Pack(pos, 2, 0, 1, 0),
	}

	if err := store.PutBatch(batch); err != nil {
		t.Fatalf("PutBatch: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != uint64(len(batch)) {
		t.Errorf("Count() = %d, want %d", count, len(batch))
	}
}
