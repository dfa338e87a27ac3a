package engine

import (
	"github.com/marlowe-engine/mtcore/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table. Hash is stored in
// full (64 bits) rather than folded to a verification tag, so index
// collisions miss cleanly and only a true 64-bit hash collision can return
// a wrong entry.
type TTEntry struct {
	Hash     uint64     // Full Zobrist hash for verification
	BestMove board.Move // Best move found
	Score    int16      // Score (bounded by flag), mate-folded relative to root
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
	Age      uint8      // Generation for replacement
}

// TranspositionTable is a hash table for storing search results.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	entrySize := uint64(24) // sizeof(TTEntry), approximately
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize

	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// Resize rebuilds the table at a new size in MB, discarding all entries.
func (tt *TranspositionTable) Resize(sizeMB int) {
	entrySize := uint64(24)
	numEntries := (uint64(sizeMB) * 1024 * 1024) / entrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	tt.entries = make([]TTEntry, numEntries)
	tt.size = numEntries
	tt.mask = numEntries - 1
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// replacementScore is the tiebreak used to decide whether a new entry may
// overwrite an existing one at the same index: score(age, depth) = age +
// depth/3. Higher wins; an empty slot (depth==0) always loses.
func replacementScore(age uint8, depth int8) int {
	return int(age) + int(depth)/3
}

// Probe looks up a position in the transposition table. Returns the entry
// and true only if the full hash matches and the slot is non-empty.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	idx := hash & tt.mask
	entry := tt.entries[idx]

	if entry.Hash == hash && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}

	return TTEntry{}, false
}

// Store saves a position in the transposition table, replacing the
// incumbent at that index only if its replacement score is not higher than
// the new entry's.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]

	oldScore := replacementScore(entry.Age, entry.Depth)
	newScore := replacementScore(tt.age, int8(depth))
	if entry.Depth == 0 || oldScore <= newScore {
		entry.Hash = hash
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

// NewSearch increments the age counter for a new search.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear zeroes the table and resets the hashfull counter.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table in use,
// sampled from the first 1000 entries.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT un-folds a mate score read from the TT back to the
// current ply's frame of reference.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT folds a mate score to be root-relative before storage, so
// the same mate found at different plies compares consistently.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
