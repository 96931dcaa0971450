package catalog

import (
	"path/filepath"
	"testing"

	"tinydb/internal/value"
)

func TestCreateTable_DuplicateNameRejected(t *testing.T) {
	c := New()
	schema := TableSchema{Name: "users", Columns: []Column{{Name: "id", Type: value.Int, IsPrimaryKey: true}}}
	if err := c.CreateTable(schema); err != nil {
		t.Fatalf("first CreateTable failed: %v", err)
	}
	if err := c.CreateTable(schema); err == nil {
		t.Fatalf("expected error creating table %q twice", "users")
	}
}

func TestDropTable_RemovesAndReindexesByName(t *testing.T) {
	c := New()
	c.CreateTable(TableSchema{Name: "a", Columns: []Column{{Name: "id", Type: value.Int, IsPrimaryKey: true}}})
	c.CreateTable(TableSchema{Name: "b", Columns: []Column{{Name: "id", Type: value.Int, IsPrimaryKey: true}}})
	c.CreateTable(TableSchema{Name: "c", Columns: []Column{{Name: "id", Type: value.Int, IsPrimaryKey: true}}})

	if err := c.DropTable("a"); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}
	if _, ok := c.GetTableSchema("a"); ok {
		t.Fatalf("expected table 'a' to be gone")
	}
	if _, ok := c.GetTableSchema("b"); !ok {
		t.Fatalf("expected table 'b' to still resolve after reindexing")
	}
	if _, ok := c.GetTableSchema("c"); !ok {
		t.Fatalf("expected table 'c' to still resolve after reindexing")
	}
}

func TestDropTable_UnknownNameErrors(t *testing.T) {
	c := New()
	if err := c.DropTable("missing"); err == nil {
		t.Fatalf("expected error dropping unknown table")
	}
}

func TestSaveLoad_RoundTripsSchema(t *testing.T) {
	c := New()
	schema := TableSchema{
		Name: "orders",
		Columns: []Column{
			{Name: "id", Type: value.Int, IsPrimaryKey: true},
			{Name: "label", Type: value.Str, Length: 20},
			{Name: "code", Type: value.Char, Length: 4},
			{Name: "shipped", Type: value.Bool},
			{Name: "customer_id", Type: value.Int, IsForeignKey: true, RefTable: "customers", RefColumn: "id"},
		},
		DataFilePath:  "/tmp/orders.dat",
		IndexFilePath: "/tmp/orders.idx",
	}
	if err := c.CreateTable(schema); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.bin")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, ok := loaded.GetTableSchema("orders")
	if !ok {
		t.Fatalf("expected table 'orders' after reload")
	}
	if len(got.Columns) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(got.Columns))
	}
	if got.Columns[4].RefTable != "customers" || got.Columns[4].RefColumn != "id" {
		t.Fatalf("expected foreign key metadata to survive roundtrip, got %+v", got.Columns[4])
	}
	if got.DataFilePath != schema.DataFilePath || got.IndexFilePath != schema.IndexFilePath {
		t.Fatalf("expected file paths to survive roundtrip, got %+v", got)
	}
}

func TestLoad_MissingFileYieldsEmptyCatalog(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "does-not-exist.bin"))
	if err != nil {
		t.Fatalf("expected missing catalog file to load as empty, got error: %v", err)
	}
	if len(c.ListTables()) != 0 {
		t.Fatalf("expected empty catalog, got %v", c.ListTables())
	}
}
