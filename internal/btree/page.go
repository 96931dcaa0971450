// Package btree implements a persistent, page-oriented B+ tree keyed by
// int32, mapping each key to an int64 byte offset in a data file.
package btree

import (
	"encoding/binary"
	"errors"
)

const (
	// PageSize is the fixed page footprint, including the header page.
	PageSize = 4096

	pageTypeLeaf     = 1
	pageTypeInternal = 2

	indexFileMagic = "TDBI1" // 5 bytes

	leafHeaderSize     = 16 // type(1) + pad(3) + numKeys(4) + nextLeaf(4) + pad(4)
	leafEntrySize      = 12 // key int32(4) + offset int64(8)
	internalHeaderSize = 16 // type(1) + pad(3) + numKeys(4) + pad(8)
	internalEntrySize  = 8  // key int32(4) + childPageID uint32(4)

	// noSibling marks a leaf with no right sibling. Page id 0 is the
	// header page so it can never collide with a real leaf id; this
	// sentinel exists anyway to make the "no sibling" case explicit.
	noSibling uint32 = 0xFFFFFFFF
)

// ErrBadPage is returned when a page fails its internal consistency check.
var ErrBadPage = errors.New("btree: bad page")

func maxLeafKeys() int {
	return (PageSize - leafHeaderSize) / leafEntrySize
}

func maxInternalKeys() int {
	return (PageSize - internalHeaderSize - 4) / internalEntrySize
}

// fileHeader is the fixed-size header page: page size, root page id, and
// the next allocatable page id, so the file can be reopened without any
// out-of-band knowledge of its own layout.
type fileHeader struct {
	PageSize    uint32
	RootPageID  uint32
	NextPageID  uint32
}

func decodeFileHeader(p []byte) (fileHeader, error) {
	if len(p) < PageSize || string(p[:len(indexFileMagic)]) != indexFileMagic {
		return fileHeader{}, ErrBadPage
	}
	off := len(indexFileMagic)
	return fileHeader{
		PageSize:   binary.LittleEndian.Uint32(p[off:]),
		RootPageID: binary.LittleEndian.Uint32(p[off+4:]),
		NextPageID: binary.LittleEndian.Uint32(p[off+8:]),
	}, nil
}

func encodeFileHeader(h fileHeader) []byte {
	p := make([]byte, PageSize)
	copy(p, indexFileMagic)
	off := len(indexFileMagic)
	binary.LittleEndian.PutUint32(p[off:], h.PageSize)
	binary.LittleEndian.PutUint32(p[off+4:], h.RootPageID)
	binary.LittleEndian.PutUint32(p[off+8:], h.NextPageID)
	return p
}

type pageHeader struct {
	Type    uint8
	NumKeys uint32
}

func readPageType(p []byte) uint8 { return p[0] }

func readLeafHeader(p []byte) (numKeys uint32, nextLeaf uint32) {
	numKeys = binary.LittleEndian.Uint32(p[4:8])
	nextLeaf = binary.LittleEndian.Uint32(p[8:12])
	return
}

func writeLeafHeader(p []byte, numKeys uint32, nextLeaf uint32) {
	p[0] = pageTypeLeaf
	binary.LittleEndian.PutUint32(p[4:8], numKeys)
	binary.LittleEndian.PutUint32(p[8:12], nextLeaf)
}

func leafGetKey(p []byte, idx int) int32 {
	off := leafHeaderSize + idx*leafEntrySize
	return int32(binary.LittleEndian.Uint32(p[off:]))
}

func leafGetOffset(p []byte, idx int) int64 {
	off := leafHeaderSize + idx*leafEntrySize + 4
	return int64(binary.LittleEndian.Uint64(p[off:]))
}

func leafSetEntry(p []byte, idx int, key int32, offset int64) {
	off := leafHeaderSize + idx*leafEntrySize
	binary.LittleEndian.PutUint32(p[off:], uint32(key))
	binary.LittleEndian.PutUint64(p[off+4:], uint64(offset))
}

type leafEntry struct {
	Key    int32
	Offset int64
}

func leafReadAll(p []byte) []leafEntry {
	n, _ := readLeafHeader(p)
	out := make([]leafEntry, n)
	for i := range out {
		out[i] = leafEntry{Key: leafGetKey(p, i), Offset: leafGetOffset(p, i)}
	}
	return out
}

func leafWriteAll(p []byte, entries []leafEntry, nextLeaf uint32) {
	writeLeafHeader(p, uint32(len(entries)), nextLeaf)
	for i, e := range entries {
		leafSetEntry(p, i, e.Key, e.Offset)
	}
}

func readInternalHeader(p []byte) (numKeys uint32) {
	return binary.LittleEndian.Uint32(p[4:8])
}

func writeInternalHeader(p []byte, numKeys uint32) {
	p[0] = pageTypeInternal
	binary.LittleEndian.PutUint32(p[4:8], numKeys)
}

// internalReadAll returns the n+1 child pointers and n separator keys of
// an internal page.
func internalReadAll(p []byte) (children []uint32, keys []int32) {
	n := int(readInternalHeader(p))
	children = make([]uint32, n+1)
	keys = make([]int32, n)

	off := internalHeaderSize
	children[0] = binary.LittleEndian.Uint32(p[off:])
	off += 4
	for i := 0; i < n; i++ {
		keys[i] = int32(binary.LittleEndian.Uint32(p[off:]))
		off += 4
		children[i+1] = binary.LittleEndian.Uint32(p[off:])
		off += 4
	}
	return children, keys
}

func internalWriteAll(p []byte, children []uint32, keys []int32) {
	writeInternalHeader(p, uint32(len(keys)))
	off := internalHeaderSize
	binary.LittleEndian.PutUint32(p[off:], children[0])
	off += 4
	for i, k := range keys {
		binary.LittleEndian.PutUint32(p[off:], uint32(k))
		off += 4
		binary.LittleEndian.PutUint32(p[off:], children[i+1])
		off += 4
	}
}
