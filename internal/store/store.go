// Package store implements the per-table record file: append-only writes
// for INSERT, full-scan and offset-seek reads, and rewrite-on-update/delete
// via the write-tmp-then-rename discipline.
package store

import (
	"fmt"
	"os"

	"tinydb/internal/catalog"
	"tinydb/internal/value"
)

// Store reads and writes fixed-width records for one table.
type Store struct {
	schema   catalog.TableSchema
	dataPath string
}

// New returns a Store for schema, backed by the table's declared data file.
func New(schema catalog.TableSchema) *Store {
	return &Store{schema: schema, dataPath: schema.DataFilePath}
}

// Row pairs a decoded record with the byte offset it was read from.
type Row struct {
	Record catalog.Record
	Offset int64
}

func (s *Store) encodeRecord(rec catalog.Record) ([]byte, error) {
	buf := make([]byte, 0, s.schema.RecordSize())
	for _, col := range s.schema.Columns {
		v, ok := rec[col.Name]
		if !ok {
			v = value.Zero(col.Type)
		}
		var err error
		buf, err = value.EncodeField(buf, v, col.FieldSpec())
		if err != nil {
			return nil, fmt.Errorf("store: encode column %q: %w", col.Name, err)
		}
	}
	return buf, nil
}

func (s *Store) decodeRecord(raw []byte) (catalog.Record, error) {
	rec := make(catalog.Record, len(s.schema.Columns))
	off := 0
	for _, col := range s.schema.Columns {
		v, n, err := value.DecodeField(raw[off:], col.FieldSpec())
		if err != nil {
			return nil, fmt.Errorf("store: decode column %q: %w", col.Name, err)
		}
		rec[col.Name] = v
		off += n
	}
	return rec, nil
}

// Insert fills any columns missing from rec with typed defaults, requires
// the primary key column to be present, appends the encoded record to the
// data file, and returns the offset it was written at.
func (s *Store) Insert(rec catalog.Record) (offset int64, err error) {
	pkCol, _, ok := s.schema.PrimaryKeyColumn()
	if !ok {
		return 0, fmt.Errorf("store: table %q has no primary key", s.schema.Name)
	}
	if _, present := rec[pkCol.Name]; !present {
		return 0, fmt.Errorf("store: insert into %q: primary key column %q is missing", s.schema.Name, pkCol.Name)
	}

	raw, err := s.encodeRecord(rec)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(s.dataPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("store: open %s: %w", s.dataPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("store: stat %s: %w", s.dataPath, err)
	}
	offset = info.Size()

	if _, err := f.Write(raw); err != nil {
		return 0, fmt.Errorf("store: append to %s: %w", s.dataPath, err)
	}
	return offset, nil
}

// ReadAt decodes the single record beginning at offset.
func (s *Store) ReadAt(offset int64) (catalog.Record, error) {
	recSize := s.schema.RecordSize()
	f, err := os.Open(s.dataPath)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", s.dataPath, err)
	}
	defer f.Close()

	raw := make([]byte, recSize)
	if _, err := f.ReadAt(raw, offset); err != nil {
		return nil, fmt.Errorf("store: read at offset %d in %s: %w", offset, s.dataPath, err)
	}
	return s.decodeRecord(raw)
}

// ScanAll reads every record back-to-back from the start of the data file
// until EOF, which is deterministic because records are fixed-width.
func (s *Store) ScanAll() ([]Row, error) {
	f, err := os.Open(s.dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: open %s: %w", s.dataPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("store: stat %s: %w", s.dataPath, err)
	}

	recSize := s.schema.RecordSize()
	if recSize == 0 {
		return nil, nil
	}
	size := info.Size()

	var rows []Row
	raw := make([]byte, recSize)
	for offset := int64(0); offset < size; offset += int64(recSize) {
		if _, err := f.ReadAt(raw, offset); err != nil {
			return nil, fmt.Errorf("store: scan %s at offset %d: %w", s.dataPath, offset, err)
		}
		rec, err := s.decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Record: rec, Offset: offset})
	}
	return rows, nil
}

// RewriteResult reports what a Rewrite pass did.
type RewriteResult struct {
	// Survivors maps each surviving record's old offset to its new offset
	// in the rewritten file, in file order.
	Survivors []OffsetMapping
	Matched   int // records for which predicate returned true
}

// OffsetMapping records how one surviving record's offset changed.
type OffsetMapping struct {
	OldOffset int64
	NewOffset int64
	Record    catalog.Record
}

// Rewrite streams the data file into a temp file, applying mutate to every
// record whose predicate returns true (mutate may be nil for DELETE, in
// which case matched records are simply dropped) and leaving the rest
// untouched, then renames the temp file over the original. If predicate
// never matches, the temp file is discarded and the original left as-is.
func (s *Store) Rewrite(predicate func(catalog.Record) bool, mutate func(catalog.Record) catalog.Record) (RewriteResult, error) {
	rows, err := s.ScanAll()
	if err != nil {
		return RewriteResult{}, err
	}

	tmpPath := s.dataPath + ".tmp"
	var result RewriteResult

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return RewriteResult{}, fmt.Errorf("store: create temp file %s: %w", tmpPath, err)
	}

	recSize := int64(s.schema.RecordSize())
	var newOffset int64
	for _, row := range rows {
		matched := predicate(row.Record)
		if matched {
			result.Matched++
		}
		if matched && mutate == nil {
			continue // DELETE: drop the record
		}
		out := row.Record
		if matched {
			out = mutate(row.Record)
		}
		raw, err := s.encodeRecord(out)
		if err != nil {
			f.Close()
			os.Remove(tmpPath)
			return RewriteResult{}, err
		}
		if _, err := f.Write(raw); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return RewriteResult{}, fmt.Errorf("store: write temp file %s: %w", tmpPath, err)
		}
		result.Survivors = append(result.Survivors, OffsetMapping{OldOffset: row.Offset, NewOffset: newOffset, Record: out})
		newOffset += recSize
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return RewriteResult{}, fmt.Errorf("store: close temp file %s: %w", tmpPath, err)
	}

	if result.Matched == 0 {
		os.Remove(tmpPath)
		return result, nil
	}

	if err := os.Rename(tmpPath, s.dataPath); err != nil {
		os.Remove(tmpPath)
		return RewriteResult{}, fmt.Errorf("store: rename %s over %s: %w", tmpPath, s.dataPath, err)
	}
	return result, nil
}
