package board

import (
	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes reachable from pos in exactly depth plies,
// the standard move-generator correctness oracle: the counts at each
// depth for a handful of known positions are well documented, so a
// mismatch pinpoints a move generation bug precisely.
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		child := pos.MakeMove(moves.Get(i))
		nodes += Perft(child, depth-1)
	}
	return nodes
}

// PerftParallel splits the root's legal moves across goroutines, one per
// move, and sums their subtree counts. Intended for the external perft
// harness driving deep counts (depth 5+) where a single core is too slow
// to be useful interactively; the search itself never calls this.
func PerftParallel(pos *Position, depth int) (uint64, error) {
	if depth <= 1 {
		return Perft(pos, depth), nil
	}

	moves := pos.GenerateLegalMoves()
	counts := make([]uint64, moves.Len())

	var g errgroup.Group
	for i := 0; i < moves.Len(); i++ {
		i := i
		m := moves.Get(i)
		g.Go(func() error {
			child := pos.MakeMove(m)
			counts[i] = Perft(child, depth-1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// PerftDivide returns the leaf count contributed by each of the root's
// legal moves, keyed by its UCI string — the standard way to localize a
// perft mismatch to a specific root move.
func PerftDivide(pos *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		child := pos.MakeMove(m)
		var count uint64
		if depth <= 1 {
			count = 1
		} else {
			count = Perft(child, depth-1)
		}
		result[m.String()] = count
	}
	return result
}
