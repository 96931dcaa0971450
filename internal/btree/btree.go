package btree

import (
	"fmt"
	"math"
	"os"
)

// Tree is an open handle on one index file.
type Tree struct {
	f          *os.File
	path       string
	rootPageID uint32
	nextPageID uint32
}

// Open opens the index file at path, creating it with a single empty leaf
// root if it does not exist.
func Open(path string) (*Tree, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("btree: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("btree: stat %s: %w", path, err)
	}

	t := &Tree{f: f, path: path}

	if info.Size() == 0 {
		rootPage := make([]byte, PageSize)
		writeLeafHeader(rootPage, 0, noSibling)
		t.rootPageID = 1
		t.nextPageID = 2

		if _, err := f.WriteAt(encodeFileHeader(fileHeader{PageSize: PageSize, RootPageID: 1, NextPageID: 2}), 0); err != nil {
			f.Close()
			return nil, fmt.Errorf("btree: write header for %s: %w", path, err)
		}
		if err := t.writePage(1, rootPage); err != nil {
			f.Close()
			return nil, err
		}
		return t, nil
	}

	hdrBuf := make([]byte, PageSize)
	if _, err := f.ReadAt(hdrBuf, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("btree: read header of %s: %w", path, err)
	}
	hdr, err := decodeFileHeader(hdrBuf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("btree: %s: %w", path, err)
	}
	t.rootPageID = hdr.RootPageID
	t.nextPageID = hdr.NextPageID
	return t, nil
}

// Close releases the underlying file handle.
func (t *Tree) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}

func (t *Tree) pageOffset(id uint32) int64 {
	return int64(id) * PageSize
}

func (t *Tree) readPage(id uint32) ([]byte, error) {
	p := make([]byte, PageSize)
	if _, err := t.f.ReadAt(p, t.pageOffset(id)); err != nil {
		return nil, fmt.Errorf("btree: read page %d: %w", id, err)
	}
	return p, nil
}

func (t *Tree) writePage(id uint32, p []byte) error {
	if len(p) != PageSize {
		return fmt.Errorf("btree: write page %d: wrong size %d", id, len(p))
	}
	if _, err := t.f.WriteAt(p, t.pageOffset(id)); err != nil {
		return fmt.Errorf("btree: write page %d: %w", id, err)
	}
	return nil
}

func (t *Tree) writeFileHeader() error {
	h := fileHeader{PageSize: PageSize, RootPageID: t.rootPageID, NextPageID: t.nextPageID}
	_, err := t.f.WriteAt(encodeFileHeader(h), 0)
	if err != nil {
		return fmt.Errorf("btree: write header of %s: %w", t.path, err)
	}
	return nil
}

func (t *Tree) allocPage() (uint32, error) {
	id := t.nextPageID
	t.nextPageID++
	if err := t.writeFileHeader(); err != nil {
		return 0, err
	}
	return id, nil
}

// findLeaf walks from the root to the leaf that key belongs in, recording
// the path of page ids visited (path[len-1] is the leaf itself).
func (t *Tree) findLeaf(key int32) (leafID uint32, path []uint32, err error) {
	id := t.rootPageID
	for {
		path = append(path, id)
		p, err := t.readPage(id)
		if err != nil {
			return 0, nil, err
		}
		switch readPageType(p) {
		case pageTypeLeaf:
			return id, path, nil
		case pageTypeInternal:
			children, keys := internalReadAll(p)
			childIdx := len(keys)
			for i, k := range keys {
				if key < k {
					childIdx = i
					break
				}
			}
			id = children[childIdx]
		default:
			return 0, nil, fmt.Errorf("btree: page %d: %w", id, ErrBadPage)
		}
	}
}

// Search returns every offset stored under key, in ascending insertion
// order, or an empty slice if key is absent.
func (t *Tree) Search(key int32) ([]int64, error) {
	leafID, _, err := t.findLeaf(key)
	if err != nil {
		return nil, err
	}
	p, err := t.readPage(leafID)
	if err != nil {
		return nil, err
	}
	var out []int64
	for _, e := range leafReadAll(p) {
		if e.Key == key {
			out = append(out, e.Offset)
		}
	}
	return out, nil
}

// Entry is one (key, offset) pair surfaced by ScanOrdered.
type Entry struct {
	Key    int32
	Offset int64
}

// ScanOrdered walks every leaf left to right via sibling pointers and
// returns all entries in ascending key order (ties in insertion order).
// Neither point lookups nor Rebuild use it; it serves ordered inspection
// of the whole index, as in the package tests.
func (t *Tree) ScanOrdered() ([]Entry, error) {
	id, _, err := t.findLeaf(math.MinInt32) // descends the leftmost path to the first leaf
	if err != nil {
		return nil, err
	}

	var out []Entry
	for {
		p, err := t.readPage(id)
		if err != nil {
			return nil, err
		}
		for _, e := range leafReadAll(p) {
			out = append(out, Entry{Key: e.Key, Offset: e.Offset})
		}
		_, next := readLeafHeader(p)
		if next == noSibling {
			break
		}
		id = next
	}
	return out, nil
}

// Insert adds (key, offset). Duplicate keys are permitted: a later
// Search returns all of them in ascending insertion order.
func (t *Tree) Insert(key int32, offset int64) error {
	leafID, path, err := t.findLeaf(key)
	if err != nil {
		return err
	}
	p, err := t.readPage(leafID)
	if err != nil {
		return err
	}

	entries := leafReadAll(p)
	pos := len(entries)
	for i, e := range entries {
		if key < e.Key {
			pos = i
			break
		}
	}
	entries = append(entries, leafEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = leafEntry{Key: key, Offset: offset}

	if len(entries) <= maxLeafKeys() {
		_, nextLeaf := readLeafHeader(p)
		leafWriteAll(p, entries, nextLeaf)
		return t.writePage(leafID, p)
	}

	return t.splitLeaf(leafID, entries, path)
}

// Rebuild implements the rebuild protocol used by UPDATE/DELETE: a fresh
// tree is built at finalPath+".tmp" from pairs (in the order given),
// closed, then renamed over finalPath. The tree has no direct delete, so
// this rebuild-and-replace is the only deletion path.
func Rebuild(finalPath string, pairs []Entry) error {
	tmpPath := finalPath + ".tmp"
	os.Remove(tmpPath)

	fresh, err := Open(tmpPath)
	if err != nil {
		return fmt.Errorf("btree: rebuild: open %s: %w", tmpPath, err)
	}
	for _, e := range pairs {
		if err := fresh.Insert(e.Key, e.Offset); err != nil {
			fresh.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("btree: rebuild: insert %d: %w", e.Key, err)
		}
	}
	if err := fresh.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("btree: rebuild: close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("btree: rebuild: rename %s over %s: %w", tmpPath, finalPath, err)
	}
	return nil
}
