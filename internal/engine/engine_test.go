package engine

import (
	"testing"
	"time"

	"github.com/marlowe-engine/mtcore/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	limits := UCILimits{Depth: 6}
	move := eng.Search(pos, limits)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchRespectsMoveTime(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	limits := UCILimits{MoveTime: 200 * time.Millisecond}
	start := time.Now()
	move := eng.Search(pos, limits)
	elapsed := time.Since(start)

	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Search took %v, expected to stop near the move time budget", elapsed)
	}
}

func TestSearchMultiplePositions(t *testing.T) {
	eng := NewEngine(16)

	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", // Italian Game
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",                                  // KP endgame
	}

	for i, fen := range positions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse position %d: %v", i, err)
		}

		limits := UCILimits{Depth: 5}
		move := eng.Search(pos, limits)
		if move == board.NoMove {
			if !pos.InCheck() || pos.GenerateLegalMoves().Len() > 0 {
				t.Errorf("Position %d: Search returned NoMove", i)
			}
		} else {
			t.Logf("Position %d: best move = %s", i, move.String())
		}
	}
}

func TestEngineClearResetsHash(t *testing.T) {
	eng := NewEngine(16)
	pos := board.NewPosition()

	eng.Search(pos, UCILimits{Depth: 6})
	if eng.tt.HashFull() == 0 {
		t.Fatal("expected transposition table to hold entries after a search")
	}

	eng.Clear()
	if eng.tt.HashFull() != 0 {
		t.Error("Clear should empty the transposition table")
	}
}

func TestEngineStopShortensSearch(t *testing.T) {
	eng := NewEngine(16)
	pos := board.NewPosition()

	done := make(chan struct{})
	go func() {
		eng.Search(pos, UCILimits{Depth: 60})
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not halt the search in time")
	}
}

func TestScoreToString(t *testing.T) {
	if got := ScoreToString(37); got != "cp 37" {
		t.Errorf("ScoreToString(37) = %q, want %q", got, "cp 37")
	}
	if got := ScoreToString(-120); got != "cp -120" {
		t.Errorf("ScoreToString(-120) = %q, want %q", got, "cp -120")
	}
	mateScore := MateScore - 3
	if got := ScoreToString(mateScore); got != "mate 2" {
		t.Errorf("ScoreToString(%d) = %q, want %q", mateScore, got, "mate 2")
	}
}
