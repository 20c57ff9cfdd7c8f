// Package huffman implements the Huffman table used by the lossless
// entropy decoder: a bit-reversed binary tree plus a 65536-entry flat
// lookup table that together resolve any codeword up to 16 bits in
// constant time, with the tree kept as a fallback for the tail of the
// stream where fewer than 16 bits may remain.
package huffman

import (
	"sync/atomic"

	"github.com/tristanseifert/cr2decode/cr2errors"
)

// notFound marks a flat-table entry that no insertion has touched yet.
const notFound = 0xFFFF

// bitReverseTable256 reverses the bits of a byte. Used to turn an
// MSB-first codeword into the LSB-first order the tree is walked in,
// so that stepping from the root corresponds to consuming bits from
// the top of the stream.
var bitReverseTable256 = func() [256]byte {
	var t [256]byte
	for i := 0; i < 256; i++ {
		b := byte(i)
		b = (b&0xF0)>>4 | (b&0x0F)<<4
		b = (b&0xCC)>>2 | (b&0x33)<<2
		b = (b&0xAA)>>1 | (b&0x55)<<1
		t[i] = b
	}
	return t
}()

// node is a single binary tree node. Leaves carry a payload value;
// internal nodes have up to two children indexed by the next bit.
type node struct {
	children [2]*node
	value    byte
	leaf     bool
}

// Table is a Huffman decode table for codewords of 1..16 bits. A Table
// may be shared by multiple decoders via Retain/Release; the tree and
// flat table are built once and never mutated after Insert stops being
// called.
type Table struct {
	root    node
	flat    [1 << 16]uint16 // (bitsConsumed<<8)|value, notFound sentinel
	refs    int32
}

// New allocates an empty table with every flat-table entry set to the
// not-found sentinel and a reference count of one.
func New() *Table {
	t := &Table{refs: 1}
	for i := range t.flat {
		t.flat[i] = notFound
	}
	return t
}

// Retain increments the table's reference count and returns it, for
// call sites that want to chain `tbl = huffman.Retain(tbl)`.
func Retain(t *Table) *Table {
	atomic.AddInt32(&t.refs, 1)
	return t
}

// Release decrements the table's reference count. It returns true if
// this was the last reference (the table's storage can now be
// discarded by the caller, matching the refcounted-tree discipline the
// tables were modeled on).
func Release(t *Table) bool {
	return atomic.AddInt32(&t.refs, -1) == 0
}

// Insert adds a codeword of the given bit length and payload value.
// code is left-aligned in the low `bits` bits of a 16-bit word, MSB
// first, matching how the codeword appears in the entropy stream.
//
// Insert fails with ErrMalformedHuffman if bits is outside [1,16] or
// the codeword collides with one already present — both indicate a
// malformed table, not a recoverable condition.
func (t *Table) Insert(code uint16, bits int, value byte) error {
	if bits < 1 || bits > 16 {
		return cr2errors.ErrMalformedHuffman
	}

	if err := t.insertFlat(code, bits, value); err != nil {
		return err
	}
	t.insertTree(code, bits, value)
	return nil
}

// insertFlat fills every one of the 1<<(16-bits) flat-table entries
// whose top `bits` bits equal code.
func (t *Table) insertFlat(code uint16, bits int, value byte) error {
	fill := 16 - bits
	base := code << uint(fill)
	entry := uint16(bits)<<8 | uint16(value)

	for i := 0; i < (1 << uint(fill)); i++ {
		idx := base | uint16(i)
		if t.flat[idx] != notFound {
			return cr2errors.ErrMalformedHuffman
		}
		t.flat[idx] = entry
	}
	return nil
}

// insertTree walks (creating as needed) the bit-reversed path for code
// and plants a leaf at the end.
func (t *Table) insertTree(code uint16, bits int, value byte) {
	rev := uint16(bitReverseTable256[code&0xFF])<<8 | uint16(bitReverseTable256[(code>>8)&0xFF])
	rev >>= uint(16 - bits)

	next := &t.root
	for i := 1; i <= bits; i++ {
		lsb := rev & 1
		rev >>= 1

		if i == bits {
			next.children[lsb] = &node{value: value, leaf: true}
			return
		}

		if next.children[lsb] == nil {
			next.children[lsb] = &node{}
		}
		next = next.children[lsb]
	}
}

// Lookup resolves a 16-bit word peeked from the stream (MSB aligned)
// against the flat table, returning the number of bits consumed and
// the payload value. ok is false if no codeword inserted matches.
func (t *Table) Lookup(word uint16) (bits int, value byte, ok bool) {
	entry := t.flat[word]
	if entry == notFound {
		return 0, 0, false
	}
	return int(entry >> 8), byte(entry & 0xFF), true
}

// WalkBit advances one step of the tree fallback walk from the given
// node (nil meaning "start at the root"). It returns the next node, and
// if that node is a leaf, its value and true. Used when fewer than 16
// bits remain in the stream and a full-word flat lookup is unsafe.
func (t *Table) WalkBit(cur *node, bit int) (next *node, value byte, leaf bool) {
	if cur == nil {
		cur = &t.root
	}
	child := cur.children[bit&1]
	if child == nil {
		return nil, 0, false
	}
	if child.leaf {
		return child, child.value, true
	}
	return child, 0, false
}

// Root exposes the tree root for WalkBit's initial call.
func (t *Table) Root() *node {
	return &t.root
}

// BuildStandard constructs a table from the canonical (bits-per-length,
// values-in-code-order) representation used by JPEG DHT segments and by
// the fixed lossless tables in this package's Standard tables.
func BuildStandard(bits [16]int, values []byte) (*Table, error) {
	t := New()

	code := uint16(0)
	p := 0
	for length := 0; length < 16; length++ {
		for i := 0; i < bits[length]; i++ {
			if err := t.Insert(code, length+1, values[p]); err != nil {
				return nil, err
			}
			p++
			code++
		}
		code <<= 1
	}

	return t, nil
}
