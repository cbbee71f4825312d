// Package kmer provides the concrete record type the distributed hash
// table is built to store: a fixed-length k-mer key paired with its
// extension base, the unit of work in a parallel de-Bruijn-graph assembly
// pass.
package kmer

import (
	"errors"
	"hash/fnv"
)

// MaxLength bounds a PKmer so it stays a trivially copyable, fixed-size
// value — no allocation, no indirection, safe to move across ranks by
// plain assignment.
const MaxLength = 32

// ErrKmerTooLong is returned by NewPKmer when the input sequence exceeds
// MaxLength bases.
var ErrKmerTooLong = errors.New("kmer: sequence exceeds max length")

// PKmer is the key view of a k-mer: a fixed-size byte array holding up to
// MaxLength bases plus the length actually in use. Two PKmer values
// compare equal with == iff they hold the same length and the same bases;
// NewPKmer always zeroes the unused tail so garbage beyond length never
// affects equality.
type PKmer struct {
	bases  [MaxLength]byte
	length uint8
}

// NewPKmer builds a PKmer from a raw base sequence. The caller is
// responsible for alphabet validation upstream; this constructor only
// enforces the fixed-size bound trivial copyability depends on.
func NewPKmer(seq []byte) (PKmer, error) {
	if len(seq) > MaxLength {
		return PKmer{}, ErrKmerTooLong
	}
	var k PKmer
	copy(k.bases[:], seq)
	k.length = uint8(len(seq))
	return k, nil
}

// Len returns the number of bases actually stored.
func (k PKmer) Len() int { return int(k.length) }

// Bytes returns the stored bases, excluding the zeroed tail.
func (k PKmer) Bytes() []byte { return k.bases[:k.length] }

// String returns the k-mer as a string of its bases.
func (k PKmer) String() string { return string(k.Bytes()) }

// Hash implements dht.KeyView: a full-width FNV-1a hash of the bases in
// use. Two PKmer values with the same Bytes() always produce the same
// hash, and the table's probe sequence depends only on this value, never
// on the raw bases directly.
func (k PKmer) Hash() uint64 {
	h := fnv.New64a()
	h.Write(k.Bytes())
	return h.Sum64()
}

// KmerPair is the record type stored in the table: a k-mer key and the
// single extension base observed to follow it in the input. Ext carries no
// meaning to the table itself — it is opaque payload alongside the key,
// recovered by the caller once Find succeeds.
type KmerPair struct {
	Kmer PKmer
	Ext  byte
}

// Key implements dht.Record[PKmer].
func (p KmerPair) Key() PKmer { return p.Kmer }
