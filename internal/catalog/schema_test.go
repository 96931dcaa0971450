package catalog

import (
	"testing"

	"tinydb/internal/value"
)

func TestRecordSize_SumsFieldSizes(t *testing.T) {
	schema := TableSchema{
		Columns: []Column{
			{Name: "id", Type: value.Int},
			{Name: "name", Type: value.Str, Length: 16},
			{Name: "active", Type: value.Bool},
		},
	}
	// INT 4 + STRING(16) (4+16=20) + BOOL 1 = 25
	if got := schema.RecordSize(); got != 25 {
		t.Fatalf("expected record size 25, got %d", got)
	}
}

func TestPrimaryKeyColumn_Found(t *testing.T) {
	schema := TableSchema{
		Columns: []Column{
			{Name: "id", Type: value.Int, IsPrimaryKey: true},
			{Name: "name", Type: value.Str, Length: 8},
		},
	}
	col, idx, ok := schema.PrimaryKeyColumn()
	if !ok || col.Name != "id" || idx != 0 {
		t.Fatalf("expected pk column 'id' at index 0, got %+v idx=%d ok=%v", col, idx, ok)
	}
}

func TestPrimaryKeyColumn_NoneDeclared(t *testing.T) {
	schema := TableSchema{Columns: []Column{{Name: "name", Type: value.Str, Length: 8}}}
	if _, _, ok := schema.PrimaryKeyColumn(); ok {
		t.Fatalf("expected no primary key column")
	}
}

func TestValidateNewTable_RejectsDuplicateColumnNames(t *testing.T) {
	schema := TableSchema{
		Name: "t",
		Columns: []Column{
			{Name: "id", Type: value.Int, IsPrimaryKey: true},
			{Name: "id", Type: value.Int},
		},
	}
	if err := validateNewTable(schema); err == nil {
		t.Fatalf("expected error for duplicate column name")
	}
}

func TestValidateNewTable_RejectsMultiplePrimaryKeys(t *testing.T) {
	schema := TableSchema{
		Name: "t",
		Columns: []Column{
			{Name: "a", Type: value.Int, IsPrimaryKey: true},
			{Name: "b", Type: value.Int, IsPrimaryKey: true},
		},
	}
	if err := validateNewTable(schema); err == nil {
		t.Fatalf("expected error for multiple primary keys")
	}
}

func TestValidateNewTable_RejectsNonIntPrimaryKey(t *testing.T) {
	schema := TableSchema{
		Name:    "t",
		Columns: []Column{{Name: "id", Type: value.Str, Length: 8, IsPrimaryKey: true}},
	}
	if err := validateNewTable(schema); err == nil {
		t.Fatalf("expected error: primary key column must be INT")
	}
}

func TestRecordClone_IsIndependentCopy(t *testing.T) {
	r := Record{"id": value.NewInt(1)}
	c := r.Clone()
	c["id"] = value.NewInt(2)
	if r["id"].I != 1 {
		t.Fatalf("expected original record untouched by clone mutation, got %+v", r["id"])
	}
}
