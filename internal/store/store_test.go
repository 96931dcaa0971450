package store

import (
	"path/filepath"
	"testing"

	"tinydb/internal/catalog"
	"tinydb/internal/value"
)

func testSchema(dir string) catalog.TableSchema {
	return catalog.TableSchema{
		Name: "users",
		Columns: []catalog.Column{
			{Name: "id", Type: value.Int, IsPrimaryKey: true},
			{Name: "name", Type: value.Str, Length: 16},
			{Name: "active", Type: value.Bool},
		},
		DataFilePath: filepath.Join(dir, "users.dat"),
	}
}

func TestInsertReadAt_RoundTrips(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	rec := catalog.Record{"id": value.NewInt(1), "name": value.NewString("Alice"), "active": value.NewBool(true)}

	offset, err := s.Insert(rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.ReadAt(offset)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if got["id"].I != 1 || got["name"].S != "Alice" || got["active"].B != true {
		t.Fatalf("unexpected record read back: %+v", got)
	}
}

func TestInsert_MissingPrimaryKeyErrors(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	rec := catalog.Record{"name": value.NewString("Alice")}
	if _, err := s.Insert(rec); err == nil {
		t.Fatalf("expected error inserting a record with no primary key value")
	}
}

func TestInsert_MissingColumnsFilledWithZero(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	rec := catalog.Record{"id": value.NewInt(7)}
	offset, err := s.Insert(rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	got, err := s.ReadAt(offset)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if got["name"].S != "" || got["active"].B != false {
		t.Fatalf("expected zero-valued defaults for missing columns, got %+v", got)
	}
}

func TestScanAll_IsFixedStrideAndOrdered(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	for i := int32(1); i <= 3; i++ {
		if _, err := s.Insert(catalog.Record{"id": value.NewInt(i), "name": value.NewString("row"), "active": value.NewBool(false)}); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}
	rows, err := s.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Record["id"].I != int32(i+1) {
			t.Fatalf("expected row %d to have id %d, got %d", i, i+1, row.Record["id"].I)
		}
	}
}

func TestScanAll_MissingFileYieldsNoRows(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	rows, err := s.ScanAll()
	if err != nil {
		t.Fatalf("expected no error scanning a table with no data file yet, got %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows, got %v", rows)
	}
}

func TestRewrite_DeleteDropsMatchedRecords(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	for i := int32(1); i <= 3; i++ {
		s.Insert(catalog.Record{"id": value.NewInt(i), "name": value.NewString("row"), "active": value.NewBool(false)})
	}

	result, err := s.Rewrite(func(rec catalog.Record) bool { return rec["id"].I == 2 }, nil)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if result.Matched != 1 {
		t.Fatalf("expected 1 match, got %d", result.Matched)
	}

	rows, err := s.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll after delete failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows remaining, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Record["id"].I == 2 {
			t.Fatalf("expected id 2 to have been deleted")
		}
	}
}

func TestRewrite_UpdateMutatesMatchedRecords(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	s.Insert(catalog.Record{"id": value.NewInt(1), "name": value.NewString("Alice"), "active": value.NewBool(false)})
	s.Insert(catalog.Record{"id": value.NewInt(2), "name": value.NewString("Bob"), "active": value.NewBool(false)})

	mutate := func(rec catalog.Record) catalog.Record {
		out := rec.Clone()
		out["active"] = value.NewBool(true)
		return out
	}
	result, err := s.Rewrite(func(rec catalog.Record) bool { return rec["id"].I == 1 }, mutate)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if result.Matched != 1 {
		t.Fatalf("expected 1 match, got %d", result.Matched)
	}

	rows, _ := s.ScanAll()
	for _, row := range rows {
		if row.Record["id"].I == 1 && !row.Record["active"].B {
			t.Fatalf("expected id 1's active flag to be updated to true")
		}
		if row.Record["id"].I == 2 && row.Record["active"].B {
			t.Fatalf("expected id 2 to be left untouched")
		}
	}
}

func TestRewrite_NoMatchLeavesFileUntouched(t *testing.T) {
	s := New(testSchema(t.TempDir()))
	s.Insert(catalog.Record{"id": value.NewInt(1), "name": value.NewString("Alice"), "active": value.NewBool(false)})

	result, err := s.Rewrite(func(rec catalog.Record) bool { return rec["id"].I == 999 }, nil)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if result.Matched != 0 {
		t.Fatalf("expected 0 matches, got %d", result.Matched)
	}

	rows, err := s.ScanAll()
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected original row to remain untouched, got %d rows", len(rows))
	}
}
