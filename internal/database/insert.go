package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jchantrell/wmset/internal/wmset"
)

// BulkInserter handles batched insertion of decoded worldmap entities
type BulkInserter struct {
	db        *Database
	batchSize int
	progress  InsertProgressCallback
}

// InsertProgressCallback is called after each batch with the rows stored so
// far for a table
type InsertProgressCallback func(table string, inserted int, total int)

// BulkInsertOptions configures bulk insertion behavior
type BulkInsertOptions struct {
	// BatchSize determines how many rows are inserted between cancellation
	// checks and progress reports
	BatchSize int

	// Progress is optional
	Progress InsertProgressCallback
}

// DefaultBulkInsertOptions returns sensible defaults for bulk insertion
func DefaultBulkInsertOptions() *BulkInsertOptions {
	return &BulkInsertOptions{
		BatchSize: 1000,
	}
}

// NewBulkInserter creates a new bulk inserter with the given database and options
func NewBulkInserter(db *Database, options *BulkInsertOptions) *BulkInserter {
	if options == nil {
		options = DefaultBulkInsertOptions()
	}

	return &BulkInserter{
		db:        db,
		batchSize: max(options.BatchSize, 1),
		progress:  options.Progress,
	}
}

// TableData represents the rows destined for a single table
type TableData struct {
	Schema *TableSchema
	Rows   [][]any // Values in column order, without file_id
}

// FileInfo identifies a decoded input file
type FileInfo struct {
	Path string
	Hash string
	Size int
}

// InsertWorldmap stores every entity of w under a new files row and returns
// its id. A previous import of the same content hash is replaced. The import
// runs in a single transaction, so a failed or cancelled import leaves the
// database as it was.
func (bi *BulkInserter) InsertWorldmap(ctx context.Context, info FileInfo, w *wmset.Worldmap, layout *wmset.Layout) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("worldmap cannot be nil")
	}

	tx, err := bi.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	fileID, err := insertFile(ctx, tx, info)
	if err != nil {
		return 0, err
	}

	for _, td := range worldmapTables(w, layout) {
		if err := bi.insertTableData(ctx, tx, fileID, td); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import of %s: %w", info.Path, err)
	}

	slog.Debug("Stored worldmap", "path", info.Path, "file_id", fileID)

	return fileID, nil
}

func insertFile(ctx context.Context, tx *sql.Tx, info FileInfo) (int64, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM "files" WHERE "hash" = ?`, info.Hash); err != nil {
		return 0, fmt.Errorf("removing previous import of %s: %w", info.Path, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO "files" ("path", "hash", "size", "extracted_at") VALUES (?, ?, ?, ?)`,
		info.Path, info.Hash, info.Size, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting file %s: %w", info.Path, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading file id: %w", err)
	}

	return id, nil
}

// insertTableData inserts one table's rows in batches, checking for
// cancellation between batches
func (bi *BulkInserter) insertTableData(ctx context.Context, tx *sql.Tx, fileID int64, tableData *TableData) error {
	if tableData.Schema == nil {
		return fmt.Errorf("table schema cannot be nil")
	}

	if len(tableData.Rows) == 0 {
		slog.Debug("No rows to insert", "table", tableData.Schema.Name)
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, bi.generateInsertSQL(tableData.Schema))
	if err != nil {
		return fmt.Errorf("preparing insert statement for %s: %w", tableData.Schema.Name, err)
	}
	defer stmt.Close()

	for i := 0; i < len(tableData.Rows); i += bi.batchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("inserting table %s: %w", tableData.Schema.Name, err)
		}

		end := min(i+bi.batchSize, len(tableData.Rows))
		for j, row := range tableData.Rows[i:end] {
			values, err := bi.buildRowValues(fileID, tableData.Schema, row)
			if err != nil {
				return fmt.Errorf("building values for %s row %d: %w", tableData.Schema.Name, i+j, err)
			}

			if _, err := stmt.ExecContext(ctx, values...); err != nil {
				return fmt.Errorf("inserting %s row %d: %w", tableData.Schema.Name, i+j, err)
			}
		}

		if bi.progress != nil {
			bi.progress(tableData.Schema.Name, end, len(tableData.Rows))
		}
	}

	return nil
}

// generateInsertSQL creates the INSERT SQL statement for a table
func (bi *BulkInserter) generateInsertSQL(schema *TableSchema) string {
	quotedColumns := []string{quoteSQLIdentifier("file_id")}
	placeholders := []string{"?"}

	for _, column := range schema.Columns {
		quotedColumns = append(quotedColumns, quoteSQLIdentifier(column.Name))
		placeholders = append(placeholders, "?")
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteSQLIdentifier(schema.Name),
		strings.Join(quotedColumns, ", "),
		strings.Join(placeholders, ", "))
}

// buildRowValues prefixes the file id and serializes JSON columns
func (bi *BulkInserter) buildRowValues(fileID int64, schema *TableSchema, row []any) ([]any, error) {
	if len(row) != len(schema.Columns) {
		return nil, fmt.Errorf("row has %d values, table %s has %d columns", len(row), schema.Name, len(schema.Columns))
	}

	values := make([]any, 0, len(row)+1)
	values = append(values, fileID)

	for i, value := range row {
		if schema.Columns[i].JSON {
			jsonBytes, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("serializing %s to JSON: %w", schema.Columns[i].Name, err)
			}
			value = string(jsonBytes)
		}
		values = append(values, value)
	}

	return values, nil
}

func schemaFor(name string) *TableSchema {
	for i := range EntitySchemas {
		if EntitySchemas[i].Name == name {
			return &EntitySchemas[i]
		}
	}
	panic("unknown table " + name)
}

// worldmapTables flattens a worldmap into per-table rows
func worldmapTables(w *wmset.Worldmap, layout *wmset.Layout) []*TableData {
	if layout == nil {
		layout = wmset.DefaultLayout()
	}

	sections := &TableData{Schema: schemaFor("sections")}
	if w.Container != nil {
		for i, r := range w.Container.Ranges {
			sections.Rows = append(sections.Rows, []any{i, w.Container.Offsets[i], r.Len(), layout.Kind(i).String()})
		}
	}

	models := &TableData{Schema: schemaFor("models")}
	for _, m := range w.Models {
		models.Rows = append(models.Rows, []any{
			m.Index, m.TexturePage, len(m.Vertices), len(m.Triangles), len(m.Quads), m.Vertices,
		})
	}

	textures := &TableData{Schema: schemaFor("textures")}
	for _, t := range w.Textures {
		textures.Rows = append(textures.Rows, []any{
			t.Index, int(t.Depth), t.Width(), t.Height(), t.HasPalette, t.PaletteCount, len(t.Pixels),
		})
	}

	dialogs := &TableData{Schema: schemaFor("dialogs")}
	for _, d := range w.Dialogs {
		dialogs.Rows = append(dialogs.Rows, []any{d.Index, d.Text.String(), d.Text.Plain()})
	}

	locations := &TableData{Schema: schemaFor("location_names")}
	for _, l := range w.LocationNames {
		locations.Rows = append(locations.Rows, []any{l.Index, l.Text.String(), l.Text.Plain()})
	}

	drawPoints := &TableData{Schema: schemaFor("draw_points")}
	for i, p := range w.DrawPoints {
		drawPoints.Rows = append(drawPoints.Rows, []any{i, p.X, p.Y, p.MagicID})
	}

	opcodes := &TableData{Schema: schemaFor("script_opcodes")}
	for _, sec := range w.Scripts {
		for e, entity := range sec.Entities {
			for s, sub := range entity.SubScripts {
				for p, op := range sub {
					opcodes.Rows = append(opcodes.Rows, []any{
						sec.Section, e, s, p, op.Code, op.Mnemonic, op.Param1, op.Param2,
					})
				}
			}
		}
	}

	diagnostics := &TableData{Schema: schemaFor("diagnostics")}
	for i, d := range w.Diagnostics {
		diagnostics.Rows = append(diagnostics.Rows, []any{i, d.Section, d.Entity, d.Message})
	}

	return []*TableData{sections, models, textures, dialogs, locations, drawPoints, opcodes, diagnostics}
}
