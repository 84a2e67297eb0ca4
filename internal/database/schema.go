package database

import (
	"context"
	"fmt"
	"strings"
)

// SchemaProgressCallback is called during schema creation to report progress
type SchemaProgressCallback func(current int, total int, description string)

// Column describes one column of a worldmap table
type Column struct {
	Name    string
	Type    string
	NotNull bool

	// JSON columns hold slices or structs serialized as JSON text
	JSON bool
}

// TableSchema describes a table holding one kind of decoded entity. Every
// table except files gets a leading file_id column referencing files(id).
type TableSchema struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

const filesTable = "files"

// FilesSchema holds one row per decoded input file
var FilesSchema = TableSchema{
	Name: filesTable,
	Columns: []Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "path", Type: "TEXT", NotNull: true},
		{Name: "hash", Type: "TEXT", NotNull: true},
		{Name: "size", Type: "INTEGER", NotNull: true},
		{Name: "extracted_at", Type: "TEXT", NotNull: true},
	},
	PrimaryKey: []string{"id"},
}

// EntitySchemas lists the per-file entity tables
var EntitySchemas = []TableSchema{
	{
		Name: "sections",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "offset", Type: "INTEGER", NotNull: true},
			{Name: "size", Type: "INTEGER", NotNull: true},
			{Name: "kind", Type: "TEXT", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "models",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "texture_page", Type: "INTEGER", NotNull: true},
			{Name: "vertex_count", Type: "INTEGER", NotNull: true},
			{Name: "triangle_count", Type: "INTEGER", NotNull: true},
			{Name: "quad_count", Type: "INTEGER", NotNull: true},
			{Name: "vertices", Type: "TEXT", JSON: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "textures",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "bpp", Type: "INTEGER", NotNull: true},
			{Name: "width", Type: "INTEGER", NotNull: true},
			{Name: "height", Type: "INTEGER", NotNull: true},
			{Name: "has_palette", Type: "INTEGER", NotNull: true},
			{Name: "palette_count", Type: "INTEGER", NotNull: true},
			{Name: "pixel_bytes", Type: "INTEGER", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "dialogs",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "text", Type: "TEXT", NotNull: true},
			{Name: "plain", Type: "TEXT", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "location_names",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "text", Type: "TEXT", NotNull: true},
			{Name: "plain", Type: "TEXT", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "draw_points",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "x", Type: "INTEGER", NotNull: true},
			{Name: "y", Type: "INTEGER", NotNull: true},
			{Name: "magic_id", Type: "INTEGER", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
	{
		Name: "script_opcodes",
		Columns: []Column{
			{Name: "section", Type: "INTEGER", NotNull: true},
			{Name: "entity", Type: "INTEGER", NotNull: true},
			{Name: "sub_script", Type: "INTEGER", NotNull: true},
			{Name: "position", Type: "INTEGER", NotNull: true},
			{Name: "code", Type: "INTEGER", NotNull: true},
			{Name: "mnemonic", Type: "TEXT", NotNull: true},
			{Name: "param1", Type: "INTEGER", NotNull: true},
			{Name: "param2", Type: "INTEGER", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "section", "entity", "sub_script", "position"},
	},
	{
		Name: "diagnostics",
		Columns: []Column{
			{Name: "idx", Type: "INTEGER", NotNull: true},
			{Name: "section", Type: "INTEGER", NotNull: true},
			{Name: "entity", Type: "INTEGER", NotNull: true},
			{Name: "message", Type: "TEXT", NotNull: true},
		},
		PrimaryKey: []string{"file_id", "idx"},
	},
}

// DDLManager handles schema creation
type DDLManager struct {
	db *Database
}

// NewDDLManager creates a new DDL manager
func NewDDLManager(db *Database) *DDLManager {
	return &DDLManager{db: db}
}

// GenerateTableDDL generates CREATE TABLE SQL for a given table schema
func (dm *DDLManager) GenerateTableDDL(table *TableSchema) (string, error) {
	if table == nil {
		return "", fmt.Errorf("table schema cannot be nil")
	}

	if table.Name == "" {
		return "", fmt.Errorf("table name cannot be empty")
	}

	var columns []string

	if table.Name != filesTable {
		columns = append(columns, quoteSQLIdentifier("file_id")+" INTEGER NOT NULL")
	}

	for i, column := range table.Columns {
		if column.Name == "" || column.Type == "" {
			return "", fmt.Errorf("column %d of %s needs a name and a type", i, table.Name)
		}
		ddl := quoteSQLIdentifier(column.Name) + " " + column.Type
		if column.NotNull {
			ddl += " NOT NULL"
		}
		columns = append(columns, ddl)
	}

	if len(table.PrimaryKey) > 0 {
		quoted := make([]string, len(table.PrimaryKey))
		for i, name := range table.PrimaryKey {
			quoted[i] = quoteSQLIdentifier(name)
		}
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	if table.Name != filesTable {
		columns = append(columns, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE CASCADE",
			quoteSQLIdentifier("file_id"), quoteSQLIdentifier(filesTable), quoteSQLIdentifier("id")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		quoteSQLIdentifier(table.Name), strings.Join(columns, ",\n  ")), nil
}

// CreateSchema creates the files table and every entity table in a single
// transaction
func (dm *DDLManager) CreateSchema(ctx context.Context, progressCallback SchemaProgressCallback) error {
	tables := append([]TableSchema{FilesSchema}, EntitySchemas...)

	tx, err := dm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for i := range tables {
		ddl, err := dm.GenerateTableDDL(&tables[i])
		if err != nil {
			return fmt.Errorf("generating DDL for %s: %w", tables[i].Name, err)
		}

		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("executing DDL for %s: %w", tables[i].Name, err)
		}

		if progressCallback != nil {
			progressCallback(i+1, len(tables), tables[i].Name)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s(%s)",
		quoteSQLIdentifier("files_hash"), quoteSQLIdentifier(filesTable), quoteSQLIdentifier("hash"))); err != nil {
		return fmt.Errorf("creating files hash index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// quoteSQLIdentifier quotes SQL identifiers to prevent conflicts with reserved words
func quoteSQLIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
