// Package selfplay persists packed training records generated during
// self-play to a local BadgerDB store, the same embedded-KV approach the
// teacher uses for its user preferences and stats.
package selfplay

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"

	"github.com/marlowe-engine/mtcore/internal/packed"
)

// seqBandwidth is how many keys a Sequence reserves from Badger per
// round-trip, amortizing the lease cost across many Put calls.
const seqBandwidth = 1000

// Store wraps a BadgerDB keyed by a monotonic big-endian sequence number,
// so a full scan replays records in generation order.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens (creating if necessary) a selfplay store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte("selfplay:seq"), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// Close releases the sequence lease and closes the underlying database.
func (s *Store) Close() error {
	if s.seq != nil {
		s.seq.Release()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put appends one packed record under the next sequence key.
func (s *Store) Put(rec [packed.Size]byte) error {
	id, err := s.seq.Next()
	if err != nil {
		return err
	}
	key := encodeKey(id)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, rec[:])
	})
}

// PutBatch writes many records in one write batch, far cheaper than one
// transaction per record for bulk self-play output.
func (s *Store) PutBatch(records [][packed.Size]byte) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, rec := range records {
		id, err := s.seq.Next()
		if err != nil {
			return err
		}
		if err := wb.Set(encodeKey(id), rec[:]); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Scan replays every stored record, in insertion order, calling fn for
// each. Scanning stops at the first error fn returns.
func (s *Store) Scan(fn func(packed.Record) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if string(item.Key()) == "selfplay:seq" {
				continue
			}
			err := item.Value(func(val []byte) error {
				rec, err := packed.Unpack(val)
				if err != nil {
					return err
				}
				return fn(rec)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored records.
func (s *Store) Count() (uint64, error) {
	var n uint64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if string(it.Item().Key()) == "selfplay:seq" {
				continue
			}
			n++
		}
		return nil
	})
	return n, err
}

// SizeString reports the on-disk LSM tree and value log sizes in
// human-readable form, for a "selfplay stats" style CLI report.
func (s *Store) SizeString() string {
	lsm, vlog := s.db.Size()
	return fmt.Sprintf("lsm=%s vlog=%s", humanize.Bytes(uint64(lsm)), humanize.Bytes(uint64(vlog)))
}

func encodeKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
